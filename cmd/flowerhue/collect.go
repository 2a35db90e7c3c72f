package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wbrown/flowerhue"
	"github.com/wbrown/flowerhue/checkpoint"
)

type collectOptions struct {
	cfg        flowerhue.CollectConfig
	lower      string
	upper      string
	backend    string
	checkpoint string
}

func newCollectCmd(opts *globalOptions) *cobra.Command {
	o := &collectOptions{cfg: flowerhue.DefaultCollectConfig()}

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Record the petal colour of every downloaded photograph",
		Long: `Collect clusters the pixels of each photograph in HSV, keeps the clusters
whose mean colour lies within the bounds and writes their pooled mean to
the KMeansData column. Photographs without such clusters are recorded as
"no flowers", unreadable ones as "An error occured".`,
		Example: `  flowerhue collect --input observations.csv --output YourSaveFile.csv
  flowerhue collect -i obs.csv -o out.csv --seed 42 --checkpoint collect.db`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return o.validate() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, opts)
		},
	}

	lo, hi := flowerhue.DefaultBounds.Lower, flowerhue.DefaultBounds.Upper
	f := cmd.Flags()
	f.StringVarP(&o.cfg.Input, "input", "i", "", "Spreadsheet with a path column (CSV)")
	f.StringVarP(&o.cfg.Output, "output", "o", o.cfg.Output, "Output spreadsheet")
	f.StringVar(&o.cfg.PathColumn, "path-column", o.cfg.PathColumn, "Column holding the image path")
	f.IntVar(&o.cfg.K, "k", o.cfg.K, "Number of colour clusters")
	f.StringVar(&o.lower, "lower", lo.String(), "Lower HSV bound of petal clusters")
	f.StringVar(&o.upper, "upper", hi.String(), "Upper HSV bound of petal clusters")
	f.Int64Var(&o.cfg.Seed, "seed", 0, "Clustering seed (0 picks a random seed)")
	f.StringVar(&o.cfg.Engine, "engine", o.cfg.Engine, "Clustering engine (lloyd, muesli)")
	f.IntVar(&o.cfg.Load.DownscaleThreshold, "downscale-threshold", o.cfg.Load.DownscaleThreshold,
		"Downscale images taller than this (0 disables)")
	f.IntVar(&o.cfg.Load.DownscaleFactor, "downscale-factor", o.cfg.Load.DownscaleFactor,
		"Divide both dimensions by this when downscaling")
	f.Float32Var(&o.cfg.Load.BlurSigma, "blur", 0, "Gaussian blur sigma applied before clustering")
	f.StringVar(&o.checkpoint, "checkpoint", "", "Checkpoint file for resuming interrupted runs")
	f.StringVar(&o.backend, "backend", "go", "Image backend (go, or opencv when built with -tags opencv)")
	cmd.MarkFlagRequired("input")
	return cmd
}

func (o *collectOptions) validate() error {
	if o.cfg.K < 1 || o.cfg.K > 50 {
		return fmt.Errorf("cluster count must be between 1 and 50, got %d", o.cfg.K)
	}
	bounds, err := parseBounds(o.lower, o.upper)
	if err != nil {
		return err
	}
	o.cfg.Bounds = bounds
	return nil
}

func (o *collectOptions) run(cmd *cobra.Command, opts *globalOptions) error {
	loader, err := newLoader(o.backend, o.cfg.Load)
	if err != nil {
		return err
	}
	o.cfg.Loader = loader

	if o.checkpoint != "" {
		store, err := checkpoint.Open(o.checkpoint)
		if err != nil {
			return err
		}
		defer store.Close()
		o.cfg.Store = store

		n, err := store.Len()
		if err != nil {
			return err
		}
		opts.log.WithFields(logrus.Fields{
			"checkpoint": o.checkpoint,
			"entries":    n,
		}).Info("using checkpoint")
	}

	report, err := flowerhue.Collect(cmd.Context(), o.cfg, opts.log)
	if err != nil {
		return err
	}
	for _, f := range report.Failures {
		opts.log.WithField("row", f.Row).Warnf("failed %s: %s", f.Key, f.Reason)
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"%d images: %d with flowers, %d without, %d failed (%d resumed)\n",
		report.Total, report.OK, report.NoFlowers, report.Failed, report.Resumed)
	return nil
}

func parseBounds(lower, upper string) (flowerhue.Bounds, error) {
	lo, err := flowerhue.ParseHSV(lower)
	if err != nil {
		return flowerhue.Bounds{}, fmt.Errorf("--lower: %w", err)
	}
	hi, err := flowerhue.ParseHSV(upper)
	if err != nil {
		return flowerhue.Bounds{}, fmt.Errorf("--upper: %w", err)
	}
	return flowerhue.Bounds{Lower: lo, Upper: hi}, nil
}
