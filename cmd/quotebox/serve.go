package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quotebox/internal/adapters/http"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebox/internal/adapters/watcher"
	"github.com/jsamuelsen/quotebox/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the sync scheduler and the import inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := wire(ctx, cfg, os.Stdout)
			defer func() { _ = w.close(context.WithoutCancel(ctx)) }()

			if err != nil {
				return err
			}

			w.logger.Info("starting service",
				slog.String("version", Version),
				slog.String("commit", Commit),
				slog.String("environment", cfg.App.Environment),
			)

			return serve(ctx, w)
		},
	}
}

// serve runs the server, the scheduler and the inbox until ctx is done or
// one of them fails.
func serve(ctx context.Context, w *wiring) error {
	cfg := w.cfg
	logger := w.logger

	var syncHandler *handlers.SyncHandler
	if w.sync != nil {
		syncHandler = handlers.NewSyncHandler(w.sync)
	}

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		AuthConfig:    &cfg.Auth,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(w.health, handlers.NewBuildInfo(Version, Commit, BuildTime), w.registry),
		QuoteHandler:  handlers.NewQuoteHandler(w.quotes),
		SyncHandler:   syncHandler,
		Timeout:       http.DefaultRequestTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return server.Run(gctx) })

	if w.sync != nil {
		scheduler := app.NewScheduler(w.sync, cfg.Sync.Interval, logger)
		g.Go(func() error { return scheduler.Run(gctx) })
	}

	if cfg.Import.WatchDir != "" {
		inbox, err := watcher.New(w.quotes, watcher.Config{
			Dir:      cfg.Import.WatchDir,
			Debounce: cfg.Import.Debounce,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("creating import inbox: %w", err)
		}

		g.Go(func() error { return inbox.Run(gctx) })
	}

	err := g.Wait()
	if err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}
