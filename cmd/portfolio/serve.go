package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/contact"
	"github.com/jonathan/portfolio/internal/datasync"
	"github.com/jonathan/portfolio/internal/server"
	"github.com/jonathan/portfolio/internal/settings"
)

var (
	servePort   int
	serveMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the portfolio content, the admin editor
and the contact form. With --memory the content lives in process and starts
from the built-in defaults.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides SERVER_PORT)")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Use an in-memory store seeded with the default content")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appConfig
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	logger := commandLogger()
	slog.SetDefault(logger)

	b, err := openBackend(ctx, cfg, serveMemory)
	if err != nil {
		return err
	}
	defer b.Close()

	feed := datasync.NewFeed(cfg.Site.NotificationFeed)
	engine := newEngine(b, feed, logger)
	if _, err := load(ctx, b, engine, logger); err != nil {
		return err
	}

	store, err := settings.NewStore(cfg.Site.DataDir, cfg.Auth.AdminEmail, logger)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	recipient := cfg.Site.ContactRecipient
	if recipient == "" {
		recipient = cfg.Auth.AdminEmail
	}
	deps := server.Deps{
		Engine:   engine,
		Feed:     feed,
		Settings: store,
		Contact:  contact.NewService(contact.LogMailer{Logger: logger}, recipient),
		Logger:   logger,
	}
	if b.db != nil {
		deps.Health = b.db
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.Site.RefreshInterval > 0 {
		go refreshLoop(ctx, engine, cfg.Site.RefreshInterval, logger)
	}
	return srv.Start(ctx)
}

// refreshLoop reloads the content on every tick until ctx is done.
func refreshLoop(ctx context.Context, engine *datasync.Engine, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if report := engine.Refresh(ctx); !report.OK() {
				logger.Warn("scheduled refresh incomplete", "failed", report.Failed())
			}
		}
	}
}
