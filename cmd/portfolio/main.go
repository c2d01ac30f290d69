// Package main provides the entry point for the portfolio server and its
// maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/config"
)

var (
	configPath string
	appConfig  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site API server",
	Long:  "Portfolio serves the content of a personal portfolio site and lets its admin edit skills, experience, projects, testimonials and blog posts.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default $CONFIG_PATH or ./config.yaml)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
