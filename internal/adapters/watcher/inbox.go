// Package watcher imports quote files dropped into an inbox directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

const (
	defaultDebounce = 500 * time.Millisecond

	// ImportedSuffix is appended to a file once its quotes were imported.
	ImportedSuffix = ".imported"

	// RejectedSuffix is appended to a file that is not a valid quote list.
	RejectedSuffix = ".rejected"
)

// Importer appends the quotes read from r to the list.
type Importer interface {
	ImportJSON(ctx context.Context, r io.Reader) (int, error)
}

// Config configures an Inbox.
type Config struct {
	Dir string

	// Debounce is how long a file must stay quiet before it is imported.
	Debounce time.Duration

	Logger *slog.Logger
}

// Inbox watches a directory for *.json files and imports each one once.
// Files are renamed afterwards so a restart does not import them again.
type Inbox struct {
	importer Importer
	dir      string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates an inbox. The directory is created on Run if missing.
func New(importer Importer, cfg Config) (*Inbox, error) {
	if importer == nil {
		return nil, errors.New("importer is required")
	}

	if cfg.Dir == "" {
		return nil, errors.New("inbox directory is required")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Inbox{
		importer: importer,
		dir:      cfg.Dir,
		debounce: debounce,
		logger:   logger.With(slog.String("component", "watcher.Inbox"), slog.String("dir", cfg.Dir)),
		pending:  make(map[string]time.Time),
	}, nil
}

// Run watches the inbox until ctx is cancelled. Files already present when
// Run starts are imported first.
func (in *Inbox) Run(ctx context.Context) error {
	err := os.MkdirAll(in.dir, 0o750)
	if err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	err = fsw.Add(in.dir)
	if err != nil {
		return fmt.Errorf("watching inbox: %w", err)
	}

	in.scan()

	in.logger.InfoContext(ctx, "import inbox started", slog.Duration("debounce", in.debounce))

	ticker := time.NewTicker(max(in.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			in.logger.InfoContext(ctx, "import inbox stopped")

			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			in.handle(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			in.logger.WarnContext(ctx, "watcher error", slog.Any("error", err))

		case now := <-ticker.C:
			in.flush(ctx, now)
		}
	}
}

func (in *Inbox) scan() {
	matches, err := filepath.Glob(filepath.Join(in.dir, "*.json"))
	if err != nil {
		in.logger.Warn("scanning inbox", slog.Any("error", err))

		return
	}

	// An old timestamp makes the first flush pick them up.
	for _, path := range matches {
		if isCandidate(path) {
			in.mark(path, time.Time{})
		}
	}
}

func (in *Inbox) handle(event fsnotify.Event) {
	if !isCandidate(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		in.mark(event.Name, time.Now())
	}
}

func (in *Inbox) mark(path string, at time.Time) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.pending[path] = at
}

// flush imports every pending file that has been quiet for the debounce period.
func (in *Inbox) flush(ctx context.Context, now time.Time) {
	in.mu.Lock()

	var ready []string

	for path, last := range in.pending {
		if now.Sub(last) >= in.debounce {
			ready = append(ready, path)
			delete(in.pending, path)
		}
	}

	in.mu.Unlock()

	sort.Strings(ready)

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}

		in.importFile(ctx, path)
	}
}

func (in *Inbox) importFile(ctx context.Context, path string) {
	logger := in.logger.With(slog.String("file", filepath.Base(path)))

	f, err := os.Open(path) //nolint:gosec // path comes from the watched inbox
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.WarnContext(ctx, "opening import file", slog.Any("error", err))
		}

		return
	}

	n, err := in.importer.ImportJSON(ctx, f)
	_ = f.Close()

	switch {
	case err == nil:
		logger.InfoContext(ctx, domain.ImportedMessage, slog.Int("count", n))
		in.rename(ctx, logger, path, ImportedSuffix)
	case domain.IsValidation(err):
		logger.WarnContext(ctx, domain.InvalidImportMessage, slog.Any("error", err))
		in.rename(ctx, logger, path, RejectedSuffix)
	default:
		// Storage failures leave the file in place for the next event.
		logger.ErrorContext(ctx, "importing quotes", slog.Any("error", err))
	}
}

func (in *Inbox) rename(ctx context.Context, logger *slog.Logger, path, suffix string) {
	err := os.Rename(path, path+suffix)
	if err != nil {
		logger.WarnContext(ctx, "renaming import file", slog.Any("error", err))
	}
}

func isCandidate(path string) bool {
	base := filepath.Base(path)

	return strings.HasSuffix(strings.ToLower(base), ".json") && !strings.HasPrefix(base, ".")
}
