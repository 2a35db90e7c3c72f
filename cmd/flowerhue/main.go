// Command flowerhue downloads flower observation photographs, measures
// their petal colour and classifies the observations by it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

type globalOptions struct {
	logLevel  string
	logFormat string
	log       *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{log: logrus.New()}

	rootCmd := &cobra.Command{
		Use:   "flowerhue",
		Short: "Colour summaries and classification of flower photographs",
		Long: `flowerhue measures the petal colour of flower observation photographs.

The pipeline runs in four steps:
1. download:  fetch the photographs listed in an observation spreadsheet
2. collect:   cluster each photograph's pixels in HSV and record the
              mean colour of the petal clusters
3. classify:  bin the recorded colour into classes per species
4. visualize: inspect the clusters of a single photograph in a browser`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.configureLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.SetVersionTemplate(`{{printf "%s version %s" .Name .Version}}
`)

	rootCmd.AddCommand(
		newDownloadCmd(opts),
		newCollectCmd(opts),
		newClassifyCmd(opts),
		newVisualizeCmd(opts),
	)
	return rootCmd
}

func (o *globalOptions) configureLogging() error {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	o.log.SetLevel(level)

	switch strings.ToLower(o.logFormat) {
	case "text":
		o.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		o.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", o.logFormat)
	}
	return nil
}
