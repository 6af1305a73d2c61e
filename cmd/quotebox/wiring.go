package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotebox/internal/adapters/display"
	"github.com/jsamuelsen/quotebox/internal/adapters/events"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/platform/config"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
	"github.com/jsamuelsen/quotebox/internal/platform/metrics"
	"github.com/jsamuelsen/quotebox/internal/platform/telemetry"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

// wiring holds the services every command runs on.
type wiring struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	health   *ports.DefaultHealthRegistry
	quotes   *app.QuoteService

	// sync is nil when sync.enabled is false.
	sync *app.SyncService

	closers []func(context.Context) error
}

// wire builds the application from cfg. Logs go to logOut. The caller must
// call close, also when wire fails.
func wire(ctx context.Context, cfg *config.Config, logOut io.Writer) (*wiring, error) {
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, logOut)
	logging.SetDefault(logger)

	w := &wiring{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		health:   ports.NewHealthRegistry(),
	}

	w.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Telemetry is a noop if disabled.
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return w, fmt.Errorf("initializing telemetry: %w", err)
	}

	w.closers = append(w.closers, telProvider.Shutdown)

	store, err := w.openStore(ctx)
	if err != nil {
		return w, err
	}

	var publisher ports.EventPublisher = ports.NopPublisher{}

	if cfg.Events.Enabled {
		pub, err := events.Connect(events.Config{
			URL:           cfg.Events.URL,
			SubjectPrefix: cfg.Events.SubjectPrefix,
			ConnectWait:   cfg.Events.ConnectWait,
			Name:          cfg.App.Name,
			Logger:        logger,
		})
		if err != nil {
			// Events are best effort; quotes work without them.
			logger.Warn("event publishing disabled", slog.Any("error", err))
		} else {
			publisher = pub
			w.closers = append(w.closers, func(context.Context) error { return pub.Close() })

			if err := w.health.Register(pub); err != nil {
				return w, fmt.Errorf("registering events health check: %w", err)
			}
		}
	}

	var displays []ports.QuoteDisplay

	if cfg.Display.Enabled {
		d, err := display.New(display.Config{
			APIKey:   cfg.Display.APIKey,
			DeviceID: cfg.Display.DeviceID,
			BaseURL:  cfg.Display.BaseURL,
			Logger:   logger,
		})
		if err != nil {
			return w, fmt.Errorf("creating display: %w", err)
		}

		displays = append(displays, d)
	}

	m := metrics.New(w.registry)

	w.quotes = app.NewQuoteService(app.QuoteServiceConfig{
		Store:     store,
		Session:   memory.New(),
		Publisher: publisher,
		Displays:  displays,
		Metrics:   m,
		Logger:    logger,
	})

	if err := w.quotes.Load(ctx); err != nil {
		return w, err
	}

	if cfg.Sync.Enabled {
		httpClient, err := clients.New(&clients.Config{
			BaseURL:     cfg.Sync.Endpoint,
			ServiceName: cfg.Sync.ServiceName,
			Timeout:     cfg.Client.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Logger:      logger,
		})
		if err != nil {
			return w, fmt.Errorf("creating HTTP client: %w", err)
		}

		remote := acl.NewRemoteQuotes(acl.RemoteQuotesConfig{
			Client:   httpClient,
			Category: cfg.Sync.Category,
			Logger:   logger,
		})

		if err := w.health.Register(remote); err != nil {
			return w, fmt.Errorf("registering remote health check: %w", err)
		}

		w.sync = app.NewSyncService(app.SyncServiceConfig{
			Quotes:    w.quotes,
			Remote:    remote,
			Publisher: publisher,
			Metrics:   m,
			Logger:    logger,
			Limit:     cfg.Sync.Limit,
		})
	}

	return w, nil
}

func (w *wiring) openStore(ctx context.Context) (ports.KeyValueStore, error) {
	switch w.cfg.Storage.Driver {
	case "memory":
		store := memory.New()

		if err := w.health.Register(store); err != nil {
			return nil, fmt.Errorf("registering store health check: %w", err)
		}

		return store, nil

	default:
		store, err := sqlite.Open(ctx, sqlite.Config{
			Path:        w.cfg.Storage.Path,
			BusyTimeout: w.cfg.Storage.BusyTimeout,
			Logger:      w.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("opening quote store: %w", err)
		}

		w.closers = append(w.closers, func(context.Context) error { return store.Close() })

		if err := w.health.Register(store); err != nil {
			return nil, fmt.Errorf("registering store health check: %w", err)
		}

		return store, nil
	}
}

// syncer returns the sync service as an app.Syncer, or nil when disabled.
func (w *wiring) syncer() app.Syncer {
	if w.sync == nil {
		return nil
	}

	return w.sync
}

// close releases resources in reverse order of acquisition.
func (w *wiring) close(ctx context.Context) error {
	var errs []error

	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i](ctx))
	}

	w.closers = nil

	err := errors.Join(errs...)
	if err != nil && w.logger != nil {
		w.logger.Error("shutdown error", slog.Any("error", err))
	}

	return err
}
