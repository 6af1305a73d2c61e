// Package tui is the terminal quote widget.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// Session is the session id the widget shows quotes under.
const Session = "tui"

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeImport
	modeExport
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
	statusSyncing
)

// Config configures the widget.
type Config struct {
	Quotes *app.QuoteService

	// Syncer runs manual and automatic syncs. Nil disables both.
	Syncer app.Syncer

	// SyncInterval is the auto-sync period while the widget is open.
	SyncInterval time.Duration

	Context context.Context
}

// Model is the bubbletea model of the widget.
type Model struct {
	ctx      context.Context
	quotes   *app.QuoteService
	syncer   app.Syncer
	interval time.Duration
	session  string
	styles   Styles
	keys     keyMap

	mode       mode
	current    *domain.Quote
	empty      bool
	categories app.CategoryView

	text     textinput.Model
	category textinput.Model
	path     textinput.Model

	status     string
	statusKind statusKind
	width      int
}

// New creates the widget model. Panics if Quotes is nil.
func New(cfg Config) Model {
	if cfg.Quotes == nil {
		panic("tui: quote service is required")
	}

	text := textinput.New()
	text.Placeholder = "Enter a new quote"
	text.CharLimit = 500

	category := textinput.New()
	category.Placeholder = "Enter quote category"
	category.CharLimit = 100

	path := textinput.New()
	path.CharLimit = 1024

	return Model{
		ctx:        contextOrBackground(cfg.Context),
		quotes:     cfg.Quotes,
		syncer:     cfg.Syncer,
		interval:   cfg.SyncInterval,
		session:    Session,
		styles:     DefaultStyles(),
		keys:       defaultKeyMap(),
		categories: app.CategoryView{Selected: domain.AllCategories},
		text:       text,
		category:   category,
		path:       path,
	}
}

// Init shows the first quote and starts auto-sync.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCategories(), m.nextQuote("")}

	if m.syncer != nil {
		cmds = append(cmds, scheduleSync(m.interval))
	}

	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}

		if m.mode != modeBrowse {
			return m.updateForm(msg)
		}

		return m.updateBrowse(msg)

	case quoteMsg:
		m.showQuote(msg.quote, msg.err)

		return m, nil

	case categoriesMsg:
		if msg.err != nil {
			m.setStatus(statusError, msg.err.Error())

			return m, nil
		}

		m.categories = msg.view

		return m, nil

	case addedMsg:
		if msg.err != nil {
			m.setStatus(statusError, userMessage(msg.err))

			return m, nil
		}

		m.categories = msg.result.Categories
		if msg.result.Shown != nil {
			m.showQuote(*msg.result.Shown, nil)
		} else {
			m.showQuote(domain.Quote{}, domain.ErrNoQuotes(m.categories.Selected))
		}

		m.text.Reset()
		m.category.Reset()
		m.closeForm()
		m.setStatus(statusSuccess, fmt.Sprintf("Quote added (%d total).", msg.result.Total))

		return m, nil

	case importedMsg:
		if msg.err != nil {
			m.setStatus(statusError, importFailure(msg.err))

			return m, nil
		}

		m.setStatus(statusSuccess, domain.ImportedMessage)

		return m, m.refresh()

	case exportedMsg:
		if msg.err != nil {
			m.setStatus(statusError, "Export failed: "+msg.err.Error())

			return m, nil
		}

		m.setStatus(statusSuccess, "Quotes exported to "+msg.path)

		return m, nil

	case syncStartedMsg:
		m.setStatus(statusSyncing, domain.SyncRunningMessage)

		return m, nil

	case syncedMsg:
		if msg.err != nil {
			m.setStatus(statusError, domain.SyncFailedMessage)

			return m, nil
		}

		m.setStatus(statusSuccess, domain.SyncDoneMessage)

		return m, m.refresh()

	case autoSyncMsg:
		return m, tea.Batch(m.runSync(), scheduleSync(m.interval))
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m, m.nextQuote("")

	case key.Matches(msg, m.keys.PrevCategory):
		return m.cycleCategory(-1)

	case key.Matches(msg, m.keys.NextCategory):
		return m.cycleCategory(1)

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.category.Blur()

		return m, m.text.Focus()

	case key.Matches(msg, m.keys.Import):
		return m.openPath(modeImport, "Path of a JSON file to import", "")

	case key.Matches(msg, m.keys.Export):
		return m.openPath(modeExport, "Export to", domain.ExportFileName)

	case key.Matches(msg, m.keys.Sync):
		if m.syncer == nil {
			m.setStatus(statusInfo, "Sync is disabled.")

			return m, nil
		}

		return m, m.runSync()
	}

	return m, nil
}

func (m Model) openPath(next mode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = next
	m.path.Placeholder = placeholder
	m.path.SetValue(value)

	return m, m.path.Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeForm()

		return m, nil

	case m.mode == modeAdd && key.Matches(msg, m.keys.SwitchField):
		if m.text.Focused() {
			m.text.Blur()

			return m, m.category.Focus()
		}

		m.category.Blur()

		return m, m.text.Focus()

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd

	switch {
	case m.mode == modeAdd && m.text.Focused():
		m.text, cmd = m.text.Update(msg)
	case m.mode == modeAdd:
		m.category, cmd = m.category.Update(msg)
	default:
		m.path, cmd = m.path.Update(msg)
	}

	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd:
		return m, m.addQuote(m.text.Value(), m.category.Value())

	case modeImport:
		path := strings.TrimSpace(m.path.Value())
		m.closeForm()

		if path == "" {
			return m, nil
		}

		return m, m.importFile(path)

	case modeExport:
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			path = domain.ExportFileName
		}

		m.closeForm()

		return m, m.exportFile(path)

	case modeBrowse:
	}

	return m, nil
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.text.Blur()
	m.category.Blur()
	m.path.Blur()
}

func (m Model) cycleCategory(step int) (tea.Model, tea.Cmd) {
	cats := m.categories.Categories
	if len(cats) == 0 {
		return m, nil
	}

	i := slices.Index(cats, m.categories.Selected)
	if i < 0 {
		i = 0
	}

	i = (i + step + len(cats)) % len(cats)
	m.categories.Selected = cats[i]

	return m, m.nextQuote(cats[i])
}

// refresh rebuilds the selector and re-shows a quote after the list changed.
func (m Model) refresh() tea.Cmd {
	return tea.Sequence(m.loadCategories(), m.nextQuote(""))
}

func (m *Model) showQuote(quote domain.Quote, err error) {
	switch {
	case err == nil:
		m.current = &quote
		m.empty = false
	case domain.IsNotFound(err):
		m.current = nil
		m.empty = true
	default:
		m.setStatus(statusError, err.Error())
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func userMessage(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	return err.Error()
}

func importFailure(err error) string {
	if domain.IsValidation(err) {
		return domain.InvalidImportMessage
	}

	return "Import failed: " + err.Error()
}
