package tui

import (
	"bytes"
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

type quoteMsg struct {
	quote domain.Quote
	err   error
}

type categoriesMsg struct {
	view app.CategoryView
	err  error
}

type addedMsg struct {
	result *app.AddResult
	err    error
}

type importedMsg struct {
	count int
	err   error
}

type exportedMsg struct {
	path string
	err  error
}

type syncStartedMsg struct{}

type syncedMsg struct {
	status domain.SyncStatus
	err    error
}

type autoSyncMsg struct{}

func (m Model) nextQuote(category string) tea.Cmd {
	return func() tea.Msg {
		quote, err := m.quotes.FilterQuotes(m.ctx, m.session, category)

		return quoteMsg{quote: quote, err: err}
	}
}

func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		view, err := m.quotes.Categories(m.ctx)

		return categoriesMsg{view: view, err: err}
	}
}

func (m Model) addQuote(text, category string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.quotes.AddQuote(m.ctx, m.session, text, category)

		return addedMsg{result: result, err: err}
	}
}

func (m Model) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path) //nolint:gosec // path is typed by the user
		if err != nil {
			return importedMsg{err: err}
		}

		n, err := m.quotes.ImportJSON(m.ctx, bytes.NewReader(data))

		return importedMsg{count: n, err: err}
	}
}

func (m Model) exportFile(path string) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer

		err := m.quotes.ExportJSON(m.ctx, &buf)
		if err == nil {
			err = os.WriteFile(path, buf.Bytes(), 0o600)
		}

		return exportedMsg{path: path, err: err}
	}
}

func (m Model) runSync() tea.Cmd {
	if m.syncer == nil {
		return nil
	}

	return tea.Sequence(
		func() tea.Msg { return syncStartedMsg{} },
		func() tea.Msg {
			status, err := m.syncer.Sync(m.ctx)

			return syncedMsg{status: status, err: err}
		},
	)
}

func scheduleSync(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}

	return tea.Tick(interval, func(time.Time) tea.Msg { return autoSyncMsg{} })
}

// contextOrBackground keeps a nil context out of service calls.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}

	return ctx
}
