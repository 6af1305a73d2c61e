package tui

import "github.com/charmbracelet/lipgloss"

// Palette with light and dark variants chosen by the terminal background.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DCE0E5", Dark: "#2A3850"}
	colorError   = lipgloss.Color("#E53935")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
)

// Styles holds every style the widget renders with.
type Styles struct {
	Title    lipgloss.Style
	Quote    lipgloss.Style
	Category lipgloss.Style
	Empty    lipgloss.Style
	Selector lipgloss.Style
	Selected lipgloss.Style
	Label    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Syncing  lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the widget's styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1),
		Quote: lipgloss.NewStyle().
			Italic(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder),
		Category: lipgloss.NewStyle().Foreground(colorMuted),
		Empty:    lipgloss.NewStyle().Foreground(colorWarning),
		Selector: lipgloss.NewStyle().Foreground(colorMuted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Label:    lipgloss.NewStyle().Bold(true),
		Status:   lipgloss.NewStyle().Foreground(colorMuted),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Success:  lipgloss.NewStyle().Foreground(colorSuccess),
		Syncing:  lipgloss.NewStyle().Foreground(colorWarning),
		Help:     lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}
