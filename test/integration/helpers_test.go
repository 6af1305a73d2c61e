//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClientConfig returns a client config for the remote at baseURL.
func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "remote-quotes",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
		Logger: discardLogger(),
	}
}

func newRemote(t *testing.T, cfg *clients.Config) *acl.RemoteQuotes {
	t.Helper()

	client, err := clients.New(cfg)
	require.NoError(t, err)

	return acl.NewRemoteQuotes(acl.RemoteQuotesConfig{Client: client, Category: "Server", Logger: discardLogger()})
}

// stack is the quote and sync services over a real sqlite file.
type stack struct {
	store  *sqlite.Store
	quotes *app.QuoteService
	sync   *app.SyncService
}

func newStack(t *testing.T, remoteURL string) *stack {
	t.Helper()

	store, err := sqlite.Open(context.Background(), sqlite.Config{
		Path:        filepath.Join(t.TempDir(), "quotes.db"),
		BusyTimeout: time.Second,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Store:   store,
		Session: memory.New(),
		Logger:  discardLogger(),
	})

	s := &stack{store: store, quotes: quotes}

	if remoteURL != "" {
		s.sync = app.NewSyncService(app.SyncServiceConfig{
			Quotes: quotes,
			Remote: newRemote(t, testClientConfig(remoteURL)),
			Logger: discardLogger(),
		})
	}

	return s
}

// newStackOn creates a fresh quote service over an existing store, as a
// restarted process would.
func newStackOn(t *testing.T, store *sqlite.Store) *app.QuoteService {
	t.Helper()

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Store:   store,
		Session: memory.New(),
		Logger:  discardLogger(),
	})
	require.NoError(t, quotes.Load(context.Background()))

	return quotes
}
