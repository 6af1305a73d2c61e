// Package app contains application services that orchestrate use cases.
// This is the application layer: it coordinates domain rules with the
// storage, display and messaging adapters through ports.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
	"github.com/jsamuelsen/quotebox/internal/platform/metrics"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

// QuoteService owns the quote list. It keeps the list in memory behind a
// mutex and mirrors it to the persistent store after every mutation.
type QuoteService struct {
	store     ports.KeyValueStore
	session   ports.KeyValueStore
	publisher ports.EventPublisher
	displays  []ports.QuoteDisplay
	metrics   *metrics.Metrics
	logger    *slog.Logger
	intn      func(n int) int

	mu     sync.RWMutex
	quotes []domain.Quote
	loaded bool
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	// Store persists the quote list and the category selection. Required.
	Store ports.KeyValueStore

	// Session holds per-session state such as the last shown quote.
	// Defaults to Store when nil.
	Session ports.KeyValueStore

	Publisher ports.EventPublisher
	Displays  []ports.QuoteDisplay
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// Rand returns a number in [0, n). Defaults to math/rand/v2.
	Rand func(n int) int
}

// CategoryView is the state of the category selector.
type CategoryView struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
}

// ImportResult describes the list after a successful import.
type ImportResult struct {
	Imported   int           `json:"imported"`
	Total      int           `json:"total"`
	Categories CategoryView  `json:"categories"`
	Shown      *domain.Quote `json:"shown,omitempty"`
}

// AddResult describes the list after a successful add.
type AddResult struct {
	Quote      domain.Quote  `json:"quote"`
	Total      int           `json:"total"`
	Categories CategoryView  `json:"categories"`
	Shown      *domain.Quote `json:"shown,omitempty"`
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("app: quote store is required")
	}

	session := cfg.Session
	if session == nil {
		session = cfg.Store
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	intn := cfg.Rand
	if intn == nil {
		intn = rand.IntN
	}

	return &QuoteService{
		store:     cfg.Store,
		session:   session,
		publisher: publisher,
		displays:  cfg.Displays,
		metrics:   cfg.Metrics,
		logger:    logger.With(slog.String("component", "app.QuoteService")),
		intn:      intn,
	}
}

func (s *QuoteService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// Load reads the persisted list. An absent, null or malformed snapshot
// falls back to the seed quotes. Loading never writes to the store.
func (s *QuoteService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(ctx)
}

func (s *QuoteService) loadLocked(ctx context.Context) error {
	raw, err := s.store.Get(ctx, ports.KeyQuotes)

	switch {
	case domain.IsNotFound(err):
		s.log(ctx).DebugContext(ctx, "no persisted quotes, using defaults")
		s.quotes = domain.DefaultQuotes()
	case err != nil:
		return fmt.Errorf("loading quotes: %w", err)
	default:
		var quotes []domain.Quote

		err = json.Unmarshal([]byte(raw), &quotes)
		if err != nil || quotes == nil {
			s.log(ctx).WarnContext(ctx, "persisted quotes unreadable, using defaults",
				slog.Any("error", err),
			)

			quotes = domain.DefaultQuotes()
		}

		s.quotes = quotes
	}

	s.loaded = true
	s.metrics.QuoteCount(len(s.quotes))

	return nil
}

func (s *QuoteService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	return s.loadLocked(ctx)
}

// saveLocked persists next and swaps it in. The in-memory list is untouched
// when persisting fails.
func (s *QuoteService) saveLocked(ctx context.Context, next []domain.Quote) error {
	if next == nil {
		next = []domain.Quote{}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	err = s.store.Set(ctx, ports.KeyQuotes, string(data))
	if err != nil {
		return fmt.Errorf("saving quotes: %w", err)
	}

	s.quotes = next
	s.metrics.QuoteCount(len(next))

	return nil
}

// Quotes returns a copy of the list.
func (s *QuoteService) Quotes(ctx context.Context) ([]domain.Quote, error) {
	err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneQuotes(s.quotes), nil
}

// cloneQuotes copies q. An empty list stays a non-nil empty slice so it
// encodes as [].
func cloneQuotes(q []domain.Quote) []domain.Quote {
	out := make([]domain.Quote, len(q))
	copy(out, q)

	return out
}

// Page returns up to limit quotes starting at offset, and the list length.
func (s *QuoteService) Page(ctx context.Context, offset, limit int) ([]domain.Quote, int, error) {
	err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.quotes)
	if offset < 0 || offset >= total {
		return []domain.Quote{}, total, nil
	}

	end := min(offset+limit, total)

	return cloneQuotes(s.quotes[offset:end]), total, nil
}

// Categories returns the selector options and the restored selection.
// A persisted selection that no longer matches a category becomes "all".
func (s *QuoteService) Categories(ctx context.Context) (CategoryView, error) {
	quotes, err := s.Quotes(ctx)
	if err != nil {
		return CategoryView{}, err
	}

	selected, err := s.selectedCategory(ctx)
	if err != nil {
		return CategoryView{}, err
	}

	if !domain.HasCategory(quotes, selected) {
		selected = domain.AllCategories
	}

	return CategoryView{Categories: domain.Categories(quotes), Selected: selected}, nil
}

func (s *QuoteService) selectedCategory(ctx context.Context) (string, error) {
	selected, err := s.store.Get(ctx, ports.KeySelectedCategory)
	if domain.IsNotFound(err) || (err == nil && selected == "") {
		return domain.AllCategories, nil
	}

	if err != nil {
		return "", fmt.Errorf("reading selected category: %w", err)
	}

	return selected, nil
}

// ShowRandomQuote picks a quote uniformly from subset, records it as the
// session's last quote and mirrors it to the displays.
func (s *QuoteService) ShowRandomQuote(ctx context.Context, session string, subset []domain.Quote) (domain.Quote, error) {
	if len(subset) == 0 {
		return domain.Quote{}, domain.ErrNoQuotes("")
	}

	quote := subset[s.intn(len(subset))]
	logger := s.log(ctx)

	data, err := json.Marshal(quote)
	if err == nil {
		err = s.session.Set(ctx, ports.SessionKey(session, ports.KeyLastQuote), string(data))
	}

	if err != nil {
		logger.WarnContext(ctx, "failed to record last quote", slog.Any("error", err))
	}

	s.metrics.QuoteShown(quote.Category)
	s.mirror(ctx, quote)

	logging.Trace(ctx, logger, "quote shown", slog.String("category", quote.Category))

	return quote, nil
}

// mirror pushes quote to every display. Failures are only logged.
func (s *QuoteService) mirror(ctx context.Context, quote domain.Quote) {
	if len(s.displays) == 0 {
		return
	}

	fns := make([]func(context.Context) (struct{}, error), 0, len(s.displays))
	for _, d := range s.displays {
		fns = append(fns, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, d.Show(ctx, quote)
		})
	}

	for _, r := range ParallelPartial(ctx, fns...) {
		if r.Err != nil {
			s.log(ctx).WarnContext(ctx, "display mirror failed", slog.Any("error", r.Err))
		}
	}
}

// FilterQuotes persists category as the selection and shows a quote from it.
// An empty category keeps the stored selection.
func (s *QuoteService) FilterQuotes(ctx context.Context, session, category string) (domain.Quote, error) {
	quotes, err := s.Quotes(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	if category == "" {
		category, err = s.selectedCategory(ctx)
		if err != nil {
			return domain.Quote{}, err
		}
	} else {
		err = s.store.Set(ctx, ports.KeySelectedCategory, category)
		if err != nil {
			return domain.Quote{}, fmt.Errorf("saving selected category: %w", err)
		}
	}

	quote, err := s.ShowRandomQuote(ctx, session, domain.FilterByCategory(quotes, category))
	if err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

// NextQuote shows another quote under the current selection.
func (s *QuoteService) NextQuote(ctx context.Context, session string) (domain.Quote, error) {
	return s.FilterQuotes(ctx, session, "")
}

// AddQuote validates and appends a quote, then refreshes the selector and
// shows a quote under the current selection.
func (s *QuoteService) AddQuote(ctx context.Context, session, text, category string) (*AddResult, error) {
	quote, err := domain.NewQuote(text, category)
	if err != nil {
		return nil, err
	}

	err = s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	next := append(append(make([]domain.Quote, 0, len(s.quotes)+1), s.quotes...), quote)
	err = s.saveLocked(ctx, next)
	total := len(s.quotes)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "quote added",
		slog.String("category", quote.Category),
		slog.Int("total", total),
	)
	s.metrics.QuoteAdded(total)
	s.publish(ctx, ports.QuoteEvent{Type: domain.EventQuoteAdded, Count: 1, Total: total, Quote: &quote})

	view, shown, err := s.refresh(ctx, session)
	if err != nil {
		return nil, err
	}

	return &AddResult{Quote: quote, Total: total, Categories: view, Shown: shown}, nil
}

// refresh rebuilds the selector and shows a quote under the restored
// selection. shown is nil when that category has no quotes.
func (s *QuoteService) refresh(ctx context.Context, session string) (CategoryView, *domain.Quote, error) {
	view, err := s.Categories(ctx)
	if err != nil {
		return CategoryView{}, nil, err
	}

	shown, err := s.FilterQuotes(ctx, session, view.Selected)

	switch {
	case err == nil:
		return view, &shown, nil
	case domain.IsNotFound(err):
		return view, nil, nil
	default:
		return CategoryView{}, nil, err
	}
}

// LastQuote returns the quote most recently shown to session.
func (s *QuoteService) LastQuote(ctx context.Context, session string) (domain.Quote, error) {
	raw, err := s.session.Get(ctx, ports.SessionKey(session, ports.KeyLastQuote))
	if domain.IsNotFound(err) {
		return domain.Quote{}, domain.NewNotFoundError("last quote", "")
	}

	if err != nil {
		return domain.Quote{}, fmt.Errorf("reading last quote: %w", err)
	}

	var quote domain.Quote

	err = json.Unmarshal([]byte(raw), &quote)
	if err != nil {
		return domain.Quote{}, domain.NewNotFoundError("last quote", "")
	}

	return quote, nil
}

// ExportJSON writes the list as a JSON array indented with two spaces.
func (s *QuoteService) ExportJSON(ctx context.Context, w io.Writer) error {
	quotes, err := s.Quotes(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	return nil
}

// ImportJSON appends every record of a JSON array read from r and returns
// how many were appended. Records are not de-duplicated.
// A document that is not a JSON array of objects changes nothing.
func (s *QuoteService) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading import: %w", err)
	}

	var records []domain.Quote

	err = json.Unmarshal(data, &records)
	if err != nil || records == nil {
		s.log(ctx).DebugContext(ctx, "import rejected", slog.Any("error", err))

		return 0, domain.NewValidationError("", domain.InvalidImportMessage)
	}

	err = s.ensureLoaded(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	next := append(append(make([]domain.Quote, 0, len(s.quotes)+len(records)), s.quotes...), records...)
	err = s.saveLocked(ctx, next)
	total := len(s.quotes)
	s.mu.Unlock()

	if err != nil {
		return 0, err
	}

	s.log(ctx).InfoContext(ctx, "quotes imported",
		slog.Int("imported", len(records)),
		slog.Int("total", total),
	)
	s.metrics.QuotesImported(len(records), total)
	s.publish(ctx, ports.QuoteEvent{Type: domain.EventQuotesImported, Count: len(records), Total: total})

	return len(records), nil
}

// ImportQuotes imports r like ImportJSON, then refreshes the selector and
// shows a quote to session the way AddQuote does.
func (s *QuoteService) ImportQuotes(ctx context.Context, session string, r io.Reader) (*ImportResult, error) {
	n, err := s.ImportJSON(ctx, r)
	if err != nil {
		return nil, err
	}

	view, shown, err := s.refresh(ctx, session)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	total := len(s.quotes)
	s.mu.RUnlock()

	return &ImportResult{Imported: n, Total: total, Categories: view, Shown: shown}, nil
}

// ApplyRemote merges remote ahead of the current list, persists the result
// and returns it.
func (s *QuoteService) ApplyRemote(ctx context.Context, remote []domain.Quote) ([]domain.Quote, error) {
	err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.saveLocked(ctx, domain.MergeRemote(remote, s.quotes))
	if err != nil {
		return nil, err
	}

	return cloneQuotes(s.quotes), nil
}

func (s *QuoteService) publish(ctx context.Context, event ports.QuoteEvent) {
	err := s.publisher.Publish(ctx, event)
	if err != nil {
		s.log(ctx).WarnContext(ctx, "failed to publish event",
			slog.String("event", event.Type),
			slog.Any("error", err),
		)
	}
}
