package tui

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

type fakeSyncer struct {
	calls int
}

func (f *fakeSyncer) Sync(context.Context) (domain.SyncStatus, error) {
	f.calls++

	return domain.SyncStatus{State: domain.SyncDone}, nil
}

func newTestModel(t *testing.T, syncer app.Syncer) (Model, *app.QuoteService) {
	t.Helper()

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Store:  memory.New(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Rand:   func(int) int { return 0 },
	})

	m := New(Config{Quotes: quotes, Syncer: syncer, Context: context.Background()})
	m = update(t, m, m.loadCategories()())
	m = update(t, m, m.nextQuote("")())

	return m, quotes
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)

	model, ok := next.(Model)
	require.True(t, ok)

	return model
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_PanicsWithoutQuotes(t *testing.T) {
	assert.Panics(t, func() { New(Config{}) })
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(t, nil)

	require.NotNil(t, m.current)
	assert.Equal(t, domain.DefaultQuotes()[0], *m.current)
	assert.Equal(t, []string{"all", "Motivation", "Programming", "Wisdom"}, m.categories.Categories)

	view := m.View()
	assert.Contains(t, view, "The best way to predict the future is to create it.")
	assert.Contains(t, view, "Category: Motivation")
}

func TestModel_NewQuoteKey(t *testing.T) {
	m, _ := newTestModel(t, nil)

	_, cmd := press(t, m, runes("n"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(quoteMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
}

func TestModel_CycleCategory(t *testing.T) {
	m, quotes := newTestModel(t, nil)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "Motivation", m.categories.Selected)

	m = update(t, m, cmd())
	assert.Equal(t, "Motivation", m.current.Category)

	view, err := quotes.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Motivation", view.Selected)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "Wisdom", m.categories.Selected, "left wraps around")
}

func TestModel_AddQuote(t *testing.T) {
	m, quotes := newTestModel(t, nil)

	m, _ = press(t, m, runes("a"))
	require.Equal(t, modeAdd, m.mode)

	m, _ = press(t, m, runes("Stay hungry."))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("Motivation"))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m = update(t, m, cmd())

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Quote added (4 total).", m.status)
	assert.Empty(t, m.text.Value())
	assert.Empty(t, m.category.Value())

	list, err := quotes.Quotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Text: "Stay hungry.", Category: "Motivation"}, list[3])
}

func TestModel_AddQuoteMissingFields(t *testing.T) {
	m, quotes := newTestModel(t, nil)

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("Only text"))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, cmd())

	assert.Equal(t, modeAdd, m.mode, "form stays open")
	assert.Equal(t, domain.MissingFieldsMessage, m.status)
	assert.Equal(t, statusError, m.statusKind)

	list, err := quotes.Quotes(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestModel_EscapeClosesForm(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeBrowse, m.mode)
}

func TestModel_ExportThenImport(t *testing.T) {
	m, quotes := newTestModel(t, nil)
	path := filepath.Join(t.TempDir(), domain.ExportFileName)

	m, _ = press(t, m, runes("e"))
	require.Equal(t, modeExport, m.mode)
	assert.Equal(t, domain.ExportFileName, m.path.Value())

	m.path.SetValue(path)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, cmd())
	assert.Equal(t, "Quotes exported to "+path, m.status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var exported []domain.Quote
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Len(t, exported, 3)

	m, _ = press(t, m, runes("i"))
	m.path.SetValue(path)
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, cmd())
	assert.Equal(t, domain.ImportedMessage, m.status)

	list, err := quotes.Quotes(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

func TestModel_ImportInvalidFile(t *testing.T) {
	m, _ := newTestModel(t, nil)
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"text":"x"}`), 0o600))

	m, _ = press(t, m, runes("i"))
	m.path.SetValue(path)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, cmd())

	assert.Equal(t, domain.InvalidImportMessage, m.status)
	assert.Equal(t, statusError, m.statusKind)
}

func TestModel_SyncStatusLine(t *testing.T) {
	m, _ := newTestModel(t, &fakeSyncer{})

	m = update(t, m, syncStartedMsg{})
	assert.Equal(t, domain.SyncRunningMessage, m.status)

	m = update(t, m, syncedMsg{status: domain.SyncStatus{State: domain.SyncDone}})
	assert.Equal(t, domain.SyncDoneMessage, m.status)

	m = update(t, m, syncedMsg{err: domain.NewUnavailableError("remote-quotes", "down")})
	assert.Equal(t, domain.SyncFailedMessage, m.status)
	assert.Contains(t, m.View(), domain.SyncFailedMessage)
}

func TestModel_SyncDisabled(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := press(t, m, runes("s"))

	assert.Nil(t, cmd)
	assert.Equal(t, "Sync is disabled.", m.status)
}

func TestModel_EmptyCategory(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, quoteMsg{err: domain.ErrNoQuotes("Nope")})

	assert.Nil(t, m.current)
	assert.Contains(t, m.View(), domain.NoQuotesMessage)
}
