package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/observability"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Load every collection and print its record count",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		logger := commandLogger()
		b, err := openBackend(ctx, appConfig, false)
		if err != nil {
			return err
		}
		defer b.Close()

		report := newEngine(b, nil, logger).Refresh(ctx)
		observability.NewPrinter(cmd.OutOrStdout()).PrintLoadReport(report)
		if !report.OK() {
			return fmt.Errorf("%d collections failed to load", len(report.Failed()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
