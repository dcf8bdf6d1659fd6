package main

import (
	"context"
	"driftblog/internal/accounts"
	"driftblog/internal/api"
	"driftblog/internal/api/handler/v1handler"
	"driftblog/internal/articles"
	"driftblog/internal/config"
	"driftblog/internal/pages"
	"driftblog/internal/startup"
	"driftblog/internal/worker"
	"driftblog/pkg/logger"
	"driftblog/pkg/storage/postgres"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func setupWorker(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) func(ctx context.Context) {
	imageWorker := worker.NewOptimizeImageWorker(startup.MediaDir(cfg.Startup.DataDir))
	riverClient, err := worker.Start(ctx, strg.Pool, imageWorker)
	if err != nil {
		logger.Fatal(ctx, "could not start background workers", zap.Error(err))
	}

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping background workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop background workers", zap.Error(err))
		}
	}
}

// serveCommand constructs the 'serve' subcommand: it runs the startup
// sequence (data dirs, settle delay, migrations, static assets, superuser
// check) and then serves the HTTP API together with the background workers.
func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the startup sequence, then starts the API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			accountsSvc := accounts.New(strg, accounts.NewOptions(cfg))
			articlesSvc := articles.New(strg, articles.NewOptions(cfg))
			pagesSvc := pages.New(strg)

			orchestrator := startup.New(startup.NewOptions(cfg),
				func(ctx context.Context) error {
					return runMigrations(ctx, strg)
				},
				accountsSvc.SuperuserExists)
			if err := orchestrator.Run(ctx); err != nil {
				logger.Fatal(ctx, "startup sequence failed", zap.Error(err))
			}

			stopWorkers := setupWorker(ctx, cfg, strg)
			stopWebserver := setupServer(ctx, cfg, api.Deps{
				Deps: v1handler.Deps{
					Accounts: accountsSvc,
					Articles: articlesSvc,
					Pages:    pagesSvc,
				},
			})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopWorkers(shutdownCtx)
		},
	}

	return cmd
}
