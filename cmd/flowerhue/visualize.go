package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wbrown/flowerhue/report"
)

func newVisualizeCmd(opts *globalOptions) *cobra.Command {
	cfg := report.DefaultConfig()
	var noOpen bool
	var backend string

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Show the colour clusters of a single photograph",
		Long: `Visualize clusters one photograph, saves a masked image per cluster as
image_cluster_<i>.jpg together with image_palette.png and
image_summary.html, and opens the summary in the default browser.`,
		Example: `  flowerhue visualize --image Observations/123.jpg --k 5`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.K < 1 || cfg.K > 50 {
				return fmt.Errorf("cluster count must be between 1 and 50, got %d", cfg.K)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := newLoader(backend, cfg.Load)
			if err != nil {
				return err
			}
			cfg.Loader = loader
			cfg.Open = !noOpen

			result, err := report.Visualize(cmd.Context(), cfg, opts.log)
			if err != nil {
				return err
			}
			for _, cl := range result.Clusters {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v (%d pixels)\n",
					report.ClusterLabel(cl.Index), cl.Mean, cl.Pixels)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Image, "image", "", "Photograph to visualize")
	f.IntVar(&cfg.K, "k", cfg.K, "Number of colour clusters")
	f.StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "Directory for the generated files")
	f.Int64Var(&cfg.Seed, "seed", 0, "Clustering seed (0 picks a random seed)")
	f.StringVar(&cfg.Engine, "engine", cfg.Engine, "Clustering engine (lloyd, muesli)")
	f.BoolVar(&noOpen, "no-open", false, "Do not open the summary in a browser")
	f.IntVar(&cfg.ThumbnailWidth, "thumb-width", 0, "Write cluster thumbnails of this width")
	f.BoolVar(&cfg.Reference, "reference", false, "Add a reference palette of dominant colours")
	f.StringVar(&backend, "backend", "go", "Image backend (go, or opencv when built with -tags opencv)")
	cmd.MarkFlagRequired("image")
	return cmd
}
