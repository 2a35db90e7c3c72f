package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wbrown/flowerhue"
)

type classifyOptions struct {
	cfg       flowerhue.ClassifyConfig
	variant   string
	lower     float64
	upper     float64
	threshold float64
}

func newClassifyCmd(opts *globalOptions) *cobra.Command {
	o := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify collected colour summaries",
		Long: `Classify reads the KMeansData column written by collect and bins one
channel of it per species:

  geranium     saturation below --lower is light, above --upper is dark,
               anything in between is medium
  sandblossom  the third KMeansData channel (mean value, stored in the
               pixels column) at or below --threshold is White, above is Blue

Photographs without flowers are labelled 0.`,
		Example: `  flowerhue classify --variant geranium -i YourSaveFile.csv -o classified.csv`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return o.validate() },
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := flowerhue.Classify(cmd.Context(), o.cfg, opts.log)
			if err != nil {
				return err
			}
			for _, f := range report.Failures {
				opts.log.WithField("row", f.Row).Warnf("not classified: %s", f.Reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "classified %d of %d rows: %s\n",
				report.Classified, report.Total, formatCounts(report.Counts))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.cfg.Input, "input", "i", "", "Spreadsheet written by collect")
	f.StringVarP(&o.cfg.Output, "output", "o", "", "Output spreadsheet")
	f.StringVar(&o.variant, "variant", "geranium", "Species (geranium, sandblossom)")
	f.Float64Var(&o.lower, "lower", flowerhue.GeraniumBins.Lower, "Geranium light/medium saturation bound")
	f.Float64Var(&o.upper, "upper", flowerhue.GeraniumBins.Upper, "Geranium medium/dark saturation bound")
	f.Float64Var(&o.threshold, "threshold", flowerhue.SandblossomThreshold.Threshold,
		"Sandblossom White/Blue threshold on the third KMeansData channel (mean value)")
	f.BoolVar(&o.cfg.Strict, "strict", false, "Abort on the first row that cannot be parsed")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func (o *classifyOptions) validate() error {
	switch strings.ToLower(o.variant) {
	case flowerhue.Geranium.Name:
		if o.lower > o.upper {
			return fmt.Errorf("--lower %g is above --upper %g", o.lower, o.upper)
		}
		o.cfg.Variant = flowerhue.Geranium
		o.cfg.Variant.Classifier = flowerhue.TernaryBins{Lower: o.lower, Upper: o.upper}
	case flowerhue.Sandblossom.Name:
		o.cfg.Variant = flowerhue.Sandblossom
		bins := flowerhue.SandblossomThreshold
		bins.Threshold = o.threshold
		o.cfg.Variant.Classifier = bins
	default:
		return fmt.Errorf("unknown variant %q (available: geranium, sandblossom)", o.variant)
	}
	return nil
}

func formatCounts(counts map[flowerhue.Label]int) string {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%d", l, counts[flowerhue.Label(l)])
	}
	return strings.Join(parts, " ")
}
