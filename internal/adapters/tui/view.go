package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// View renders the widget.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Quotebox"))
	b.WriteString("\n")
	b.WriteString(m.renderQuote())
	b.WriteString("\n\n")
	b.WriteString(m.renderSelector())
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString("\n")
		b.WriteString(m.styles.Label.Render("Add quote"))
		b.WriteString("\n")
		b.WriteString(m.text.View())
		b.WriteString("\n")
		b.WriteString(m.category.View())
		b.WriteString("\n")
	case modeImport, modeExport:
		label := "Import"
		if m.mode == modeExport {
			label = "Export"
		}

		b.WriteString("\n")
		b.WriteString(m.styles.Label.Render(label))
		b.WriteString("\n")
		b.WriteString(m.path.View())
		b.WriteString("\n")
	case modeBrowse:
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.statusStyle().Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.renderHelp()))

	return b.String()
}

func (m Model) renderQuote() string {
	style := m.styles.Quote
	if m.width > 4 {
		style = style.Width(min(m.width-4, 80))
	}

	switch {
	case m.current != nil:
		return style.Render(`"` + m.current.Text + `"` + "\n" +
			m.styles.Category.Render("Category: "+m.current.Category))
	case m.empty:
		return style.Render(m.styles.Empty.Render(domain.NoQuotesMessage))
	default:
		return style.Render("")
	}
}

func (m Model) renderSelector() string {
	parts := make([]string, 0, len(m.categories.Categories))

	for _, c := range m.categories.Categories {
		if c == m.categories.Selected {
			parts = append(parts, m.styles.Selected.Render("‹"+c+"›"))
		} else {
			parts = append(parts, m.styles.Selector.Render(c))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Label.Render("Category: "), strings.Join(parts, " "))
}

func (m Model) statusStyle() lipgloss.Style {
	switch m.statusKind {
	case statusError:
		return m.styles.Error
	case statusSuccess:
		return m.styles.Success
	case statusSyncing:
		return m.styles.Syncing
	case statusInfo:
		return m.styles.Status
	default:
		return m.styles.Status
	}
}

func (m Model) renderHelp() string {
	var bindings []key.Binding

	if m.mode == modeBrowse {
		bindings = m.keys.browseHelp()
	} else {
		bindings = m.keys.formHelp(m.mode == modeAdd)
	}

	parts := make([]string, 0, len(bindings))

	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}

	return strings.Join(parts, " • ")
}
