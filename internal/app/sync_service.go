package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/metrics"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

// DefaultSyncLimit is how many remote records a sync keeps.
const DefaultSyncLimit = 5

// SyncService reconciles the local list with the remote quote source.
// Only one sync runs at a time; a second caller waits for the first.
type SyncService struct {
	quotes    *QuoteService
	remote    ports.RemoteQuoteSource
	publisher ports.EventPublisher
	metrics   *metrics.Metrics
	exec      *Executor
	logger    *slog.Logger
	limit     int
	now       func() time.Time

	run sync.Mutex

	mu        sync.RWMutex
	status    domain.SyncStatus
	observers []func(domain.SyncStatus)
}

// SyncServiceConfig contains the dependencies of the sync service.
type SyncServiceConfig struct {
	Quotes    *QuoteService
	Remote    ports.RemoteQuoteSource
	Publisher ports.EventPublisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// Limit caps the remote records used per sync. Defaults to DefaultSyncLimit.
	Limit int

	Now func() time.Time
}

// NewSyncService creates a sync service. Quotes and Remote are required.
func NewSyncService(cfg SyncServiceConfig) *SyncService {
	if cfg.Quotes == nil || cfg.Remote == nil {
		panic("app: sync service requires quotes and remote")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultSyncLimit
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger = logger.With(slog.String("component", "app.SyncService"))

	return &SyncService{
		quotes:    cfg.Quotes,
		remote:    cfg.Remote,
		publisher: publisher,
		metrics:   cfg.Metrics,
		exec:      NewExecutor(logger),
		logger:    logger,
		limit:     limit,
		now:       now,
		status:    domain.SyncStatus{State: domain.SyncIdle},
	}
}

// Status returns the current sync status.
func (s *SyncService) Status() domain.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status
}

// OnStatus registers fn to be called after every status change.
// fn runs on the syncing goroutine and must not block.
func (s *SyncService) OnStatus(fn func(domain.SyncStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, fn)
}

func (s *SyncService) setStatus(update func(*domain.SyncStatus)) domain.SyncStatus {
	s.mu.Lock()
	update(&s.status)
	s.status.Message = s.status.State.Message()
	status := s.status
	observers := append(([]func(domain.SyncStatus))(nil), s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(status)
	}

	return status
}

// Sync fetches the remote records, pushes the merged list back and, only once
// both calls succeeded, persists the merged list locally. On failure the local
// list is left as it was and the returned status is SyncFailed.
func (s *SyncService) Sync(ctx context.Context) (domain.SyncStatus, error) {
	s.run.Lock()
	defer s.run.Unlock()

	start := time.Now()

	s.setStatus(func(st *domain.SyncStatus) {
		st.State = domain.SyncRunning
		st.Error = ""
		st.LastAttempt = s.now()
	})

	status, err := Execute(ctx, s.exec, Operation[int, fetched, []domain.Quote, domain.SyncStatus]{
		Name:    "sync",
		Perform: s.fetchAndPush,
		Verify:  s.verify,
		Archive: s.archive,
		Respond: s.respond,
	}, s.limit)
	if err != nil {
		reason := failureReason(err)

		status = s.setStatus(func(st *domain.SyncStatus) {
			st.State = domain.SyncFailed
			st.Error = reason
		})

		s.publish(ctx, ports.QuoteEvent{
			Type:  domain.EventSyncFailed,
			Error: reason,
			Total: status.Total,
		})
		s.metrics.SyncFinished(metrics.OutcomeFailure, time.Since(start))

		s.logger.WarnContext(ctx, "sync failed", slog.String("reason", reason))

		return status, err
	}

	s.metrics.SyncFinished(metrics.OutcomeSuccess, time.Since(start))

	s.logger.InfoContext(ctx, "sync complete",
		slog.Int("fetched", status.Fetched),
		slog.Int("total", status.Total),
	)

	return status, nil
}

// fetched is what the perform step hands to verification.
type fetched struct {
	remote []domain.Quote
	pushed []domain.Quote
}

func (s *SyncService) fetchAndPush(ctx context.Context, limit int) (fetched, error) {
	records, local, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Quote, error) {
			return s.remote.FetchQuotes(ctx, limit)
		},
		s.quotes.Quotes,
	)
	if err != nil {
		return fetched{}, err
	}

	if len(records) > limit {
		records = records[:limit]
	}

	remote := make([]domain.Quote, 0, len(records))

	for _, q := range records {
		err := q.Validate()
		if err != nil {
			s.logger.DebugContext(ctx, "skipping remote record", slog.Any("error", err))

			continue
		}

		remote = append(remote, q)
	}

	remote = domain.Dedupe(remote)
	merged := domain.MergeRemote(remote, local)

	err = s.remote.PushQuotes(ctx, merged)
	if err != nil {
		return fetched{}, fmt.Errorf("pushing merged quotes: %w", err)
	}

	return fetched{remote: remote, pushed: merged}, nil
}

// verify checks the pushed list before anything is persisted.
func (s *SyncService) verify(ctx context.Context, _ int, f fetched) ([]domain.Quote, error) {
	if len(domain.Dedupe(f.pushed)) != len(f.pushed) {
		return nil, errors.New("merged list contains duplicate quotes")
	}

	s.logger.DebugContext(ctx, "merged list pushed",
		slog.Int("fetched", len(f.remote)),
		slog.Int("pushed", len(f.pushed)),
	)

	return f.remote, nil
}

func (s *SyncService) archive(ctx context.Context, _ int, remote []domain.Quote) error {
	merged, err := s.quotes.ApplyRemote(ctx, remote)
	if err != nil {
		return err
	}

	s.publish(ctx, ports.QuoteEvent{
		Type:  domain.EventQuotesSynced,
		Count: len(remote),
		Total: len(merged),
	})

	return nil
}

func (s *SyncService) respond(ctx context.Context, _ int, remote []domain.Quote) (domain.SyncStatus, error) {
	quotes, err := s.quotes.Quotes(ctx)
	if err != nil {
		return domain.SyncStatus{}, err
	}

	return s.setStatus(func(st *domain.SyncStatus) {
		st.State = domain.SyncDone
		st.Error = ""
		st.LastSuccess = s.now()
		st.Fetched = len(remote)
		st.Total = len(quotes)
	}), nil
}

func (s *SyncService) publish(ctx context.Context, event ports.QuoteEvent) {
	err := s.publisher.Publish(ctx, event)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", event.Type),
			slog.Any("error", err),
		)
	}
}

// failureReason strips the step wrapper so the status carries the cause.
func failureReason(err error) string {
	var execErr *ExecutionError
	if errors.As(err, &execErr) && execErr.Cause != nil {
		return execErr.Cause.Error()
	}

	return err.Error()
}
