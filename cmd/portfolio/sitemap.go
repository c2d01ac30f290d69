package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/sitemap"
)

var (
	sitemapOut    string
	sitemapMemory bool
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml for the public site",
	RunE:  runSitemap,
}

func init() {
	sitemapCmd.Flags().StringVarP(&sitemapOut, "out", "o", "", "Output file (default: stdout)")
	sitemapCmd.Flags().BoolVar(&sitemapMemory, "memory", false, "Build from the built-in content instead of the database")
	rootCmd.AddCommand(sitemapCmd)
}

func runSitemap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := commandLogger()
	b, err := openBackend(ctx, appConfig, sitemapMemory)
	if err != nil {
		return err
	}
	defer b.Close()

	engine := newEngine(b, nil, logger)
	report, err := load(ctx, b, engine, logger)
	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("failed to load %v", report.Failed())
	}

	set := sitemap.Build(appConfig.Site.BaseURL, sitemap.Routes(engine.Cache()), time.Now())
	if sitemapOut == "" {
		return set.Write(cmd.OutOrStdout())
	}
	return writeFile(sitemapOut, set.Write)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
