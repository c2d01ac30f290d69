package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/datasync"
	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/seed"
)

// backend is the content store a command runs against.
type backend struct {
	store  datasync.Store
	db     *db.DB
	memory bool
}

// openBackend connects to PostgreSQL, or returns an in-memory store filled
// with the default content when memory is set.
func openBackend(ctx context.Context, cfg *config.Config, memory bool) (*backend, error) {
	if memory {
		return &backend{store: db.NewMemory(), memory: true}, nil
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required (or pass --memory)")
	}
	conn, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &backend{store: conn, db: conn}, nil
}

func (b *backend) Close() {
	if b.db != nil {
		b.db.Close()
	}
}

// newEngine builds the sync engine over the backend. Notifications go to the
// log and to feed when it is non-nil.
func newEngine(b *backend, feed *datasync.Feed, logger *slog.Logger) *datasync.Engine {
	notifier := datasync.MultiNotifier{datasync.LogNotifier{Logger: logger}}
	if feed != nil {
		notifier = append(notifier, feed)
	}
	return datasync.NewEngine(b.store, datasync.NewCache(),
		datasync.WithNotifier(notifier),
		datasync.WithLogger(logger),
	)
}

// load fills the engine's cache. An in-memory backend starts empty, so it
// gets the default content first.
func load(ctx context.Context, b *backend, engine *datasync.Engine, logger *slog.Logger) (datasync.LoadReport, error) {
	if !b.memory {
		return engine.Refresh(ctx), nil
	}
	set, err := seed.Default()
	if err != nil {
		return datasync.LoadReport{}, fmt.Errorf("load default content: %w", err)
	}
	report := seed.Apply(ctx, engine, set)
	if !report.OK() {
		logger.Warn("default content incomplete", "failed", len(report.Failed), "unavailable", len(report.Unavailable))
	}
	return engine.Refresh(ctx), nil
}

func commandLogger() *slog.Logger {
	return observability.NewLogger(appConfig.Log)
}
