package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/datasync"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill empty collections with starter content",
	Long: `Insert the built-in starter content, or the content of --file, into every
collection that is currently empty. Collections that already hold records are
left untouched.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "JSON file with the content to seed (default: built-in content)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	set, err := readSeedSet(seedFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := commandLogger()
	b, err := openBackend(ctx, appConfig, false)
	if err != nil {
		return err
	}
	defer b.Close()

	feed := datasync.NewFeed(0)
	engine := newEngine(b, feed, logger)
	report := seed.Apply(ctx, engine, set)

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintCounts("RECORDS ADDED", report.Added)
	if len(report.Skipped) > 0 {
		names := make([]string, 0, len(report.Skipped))
		for _, c := range report.Skipped {
			names = append(names, string(c))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped (already populated): %s\n", strings.Join(names, ", "))
	}
	printer.PrintNotifications(errorsOnly(feed.Recent(0)))

	if !report.OK() {
		return fmt.Errorf("seeding incomplete: %d records failed, %d collections unavailable", len(report.Failed), len(report.Unavailable))
	}
	return nil
}

func readSeedSet(path string) (seed.Set, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	set, err := seed.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return set, nil
}

func errorsOnly(items []datasync.Notification) []datasync.Notification {
	var out []datasync.Notification
	for _, n := range items {
		if n.Level == datasync.LevelError {
			out = append(out, n)
		}
	}
	return out
}
