// Package startup implements the container bootstrap sequence: ensure the
// data directories exist, wait for mounted volumes to settle, run schema
// migrations, stage static assets and report whether a privileged account
// exists. The sequence is strictly linear; only the migration step is fatal.
package startup

import (
	"context"
	"driftblog/internal/assets"
	"driftblog/internal/config"
	"driftblog/pkg/logger"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Options configure the bootstrap sequence.
type Options struct {
	// DataDir is the persistent volume root. Media uploads and staged static
	// assets live in subdirectories beneath it.
	DataDir string
	// StaticSource is the directory static assets are collected from.
	StaticSource string
	// SettleDelay is the unconditional pause before migrations run. It gives
	// mounted volumes time to settle and is deliberately a fixed sleep, not a
	// readiness probe.
	SettleDelay time.Duration
}

// NewOptions constructs an Options value from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		DataDir:      cfg.Startup.DataDir,
		StaticSource: cfg.Startup.StaticSource,
		SettleDelay:  cfg.Startup.SettleDelay,
	}
}

// MediaDir returns the uploads directory beneath the data dir.
func MediaDir(dataDir string) string { return filepath.Join(dataDir, "media") }

// StaticRoot returns the staged-assets directory beneath the data dir.
func StaticRoot(dataDir string) string { return filepath.Join(dataDir, "static") }

// Orchestrator runs the bootstrap sequence once per container start.
type Orchestrator struct {
	options Options

	// migrate applies all pending schema migrations. A non-nil error aborts
	// the sequence; this is the only fatal step.
	migrate func(ctx context.Context) error
	// superuserExists is the read-only privileged-account check. Its result
	// only affects logging; errors are swallowed.
	superuserExists func(ctx context.Context) (bool, error)

	// collect and sleep are swappable for tests.
	collect func(ctx context.Context, src, dest string) (int, error)
	sleep   func(d time.Duration)
}

// New creates an Orchestrator with the given migration and superuser-check
// callbacks.
func New(options Options,
	migrate func(ctx context.Context) error,
	superuserExists func(ctx context.Context) (bool, error)) *Orchestrator {
	return &Orchestrator{
		options:         options,
		migrate:         migrate,
		superuserExists: superuserExists,
		collect:         assets.Collect,
		sleep:           time.Sleep,
	}
}

// Run executes the bootstrap sequence and returns once the process is ready
// to serve. Only directory creation and migration failures are returned;
// asset staging and the superuser check degrade to log messages.
func (o *Orchestrator) Run(ctx context.Context) error {
	// 1. ensure the data directories exist; MkdirAll is idempotent so a
	//    restart against a populated volume is a no-op
	for _, dir := range []string{o.options.DataDir, MediaDir(o.options.DataDir), StaticRoot(o.options.DataDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create data directory %q: %w", dir, err)
		}
	}
	logger.Info(ctx, "data directories ready", zap.String("dataDir", o.options.DataDir))

	// 2. settle delay for mounted volumes
	if o.options.SettleDelay > 0 {
		logger.Info(ctx, "waiting for resources to settle", zap.Duration("delay", o.options.SettleDelay))
		o.sleep(o.options.SettleDelay)
	}

	// 3. migrations are fatal: serving against a stale schema is worse than
	//    not serving at all
	logger.Info(ctx, "applying database migrations...")
	if err := o.migrate(ctx); err != nil {
		return fmt.Errorf("could not migrate database: %w", err)
	}

	// 4. stage static assets; a failure only degrades static-file serving
	staged, err := o.collect(ctx, o.options.StaticSource, StaticRoot(o.options.DataDir))
	if err != nil {
		logger.Warn(ctx, "could not collect static files, continuing without staged assets", zap.Error(err))
	} else {
		logger.Info(ctx, "static files collected", zap.Int("count", staged))
	}

	// 5. read-only superuser check; never creates an account
	exists, err := o.superuserExists(ctx)
	switch {
	case err != nil:
		logger.Info(ctx, "could not determine whether a superuser exists")
	case exists:
		logger.Info(ctx, "superuser account found")
	default:
		logger.Info(ctx, "no superuser exists yet, create one with 'driftblog createsuperuser'")
	}

	return nil
}
