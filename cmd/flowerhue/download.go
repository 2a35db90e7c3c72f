package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wbrown/flowerhue/download"
)

func newDownloadCmd(opts *globalOptions) *cobra.Command {
	cfg := download.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the photographs listed in a spreadsheet",
		Long: `Download fetches the image_url of every row and saves it as <id>.jpg in
the destination directory. Records that cannot be fetched are skipped
and reported at the end.`,
		Example: `  flowerhue download --input observations.csv --dest Observations`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := download.Run(cmd.Context(), cfg, opts.log)
			if err != nil {
				return err
			}
			for _, f := range report.Failures {
				opts.log.WithField("row", f.Row).
					Warnf("skipped %s (%s): %s", f.ID, f.URL, f.Reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d of %d images\n",
				report.Downloaded, report.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.Input, "input", "i", "", "Observation spreadsheet (CSV)")
	cmd.Flags().StringVarP(&cfg.Dest, "dest", "d", "Observations", "Destination directory")
	cmd.Flags().StringVar(&cfg.IDColumn, "id-column", cfg.IDColumn, "Column holding the record id")
	cmd.Flags().StringVar(&cfg.URLColumn, "url-column", cfg.URLColumn, "Column holding the image URL")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Timeout per download")
	cmd.MarkFlagRequired("input")
	return cmd
}
