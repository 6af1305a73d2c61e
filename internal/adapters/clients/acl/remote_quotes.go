package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

// RemoteQuotesConfig configures a RemoteQuotes adapter.
type RemoteQuotesConfig struct {
	// Client must have its BaseURL set to the remote endpoint itself.
	Client *clients.Client

	// Category labels every quote fetched from the remote.
	Category string

	Logger *slog.Logger
}

// RemoteQuotes implements ports.RemoteQuoteSource against a JSON endpoint
// that serves posts on GET and accepts a list on POST.
type RemoteQuotes struct {
	BaseAdapter

	category string
	logger   *slog.Logger
}

// NewRemoteQuotes creates the adapter. Panics if Client is nil.
func NewRemoteQuotes(cfg RemoteQuotesConfig) *RemoteQuotes {
	if cfg.Client == nil {
		panic("RemoteQuotes: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	category := cfg.Category
	if category == "" {
		category = "Server"
	}

	return &RemoteQuotes{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		category:    category,
		logger:      logger,
	}
}

// remotePost is one record served by the remote. Only the title is used.
type remotePost struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// FetchQuotes implements ports.RemoteQuoteSource.
// Records are kept in server order and cut to the first limit.
func (r *RemoteQuotes) FetchQuotes(ctx context.Context, limit int) ([]domain.Quote, error) {
	logger := logging.FromContextOr(ctx, r.logger)
	logger.DebugContext(ctx, "fetching remote quotes", slog.Int("limit", limit))

	body, err := r.Get(ctx, "", "fetch quotes")
	if err != nil {
		return nil, err
	}

	posts, err := DecodeResponse[[]remotePost](body)
	if err != nil {
		return nil, domain.NewUnavailableError(r.ServiceName(), err.Error())
	}

	records := *posts
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	quotes, err := TranslateSlice(records, r.translate)
	if err != nil {
		return nil, err
	}

	logging.Trace(ctx, logger, "translated remote records",
		slog.Int("received", len(*posts)),
		slog.Int("kept", len(quotes)),
	)

	return quotes, nil
}

func (r *RemoteQuotes) translate(p *remotePost) (domain.Quote, error) {
	return domain.Quote{Text: p.Title, Category: r.category}, nil
}

// PushQuotes implements ports.RemoteQuoteSource.
// A 4xx answer is logged and otherwise ignored: the remote does not persist
// anything, so only an unreachable server fails the push.
func (r *RemoteQuotes) PushQuotes(ctx context.Context, quotes []domain.Quote) error {
	logger := logging.FromContextOr(ctx, r.logger)

	if quotes == nil {
		quotes = []domain.Quote{}
	}

	payload, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	body, err := r.Post(ctx, "", payload, "push quotes")
	if err != nil {
		if domain.IsUnavailable(err) {
			return err
		}

		logger.WarnContext(ctx, "remote rejected pushed quotes",
			slog.Int("count", len(quotes)),
			slog.Any("error", err),
		)

		return nil
	}

	_ = body.Close()

	logger.DebugContext(ctx, "pushed quotes", slog.Int("count", len(quotes)))

	return nil
}

// Name implements ports.HealthChecker.
func (r *RemoteQuotes) Name() string {
	return r.ServiceName()
}

// Check implements ports.HealthChecker. It does not touch the network: the
// remote is reported unhealthy only while the circuit breaker is open.
func (r *RemoteQuotes) Check(context.Context) error {
	if r.Client().CircuitState() == clients.StateOpen {
		return domain.NewUnavailableError(r.ServiceName(), "circuit breaker open")
	}

	return nil
}
