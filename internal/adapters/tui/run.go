package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the widget until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	cfg.Context = ctx

	p := tea.NewProgram(New(cfg), tea.WithContext(ctx), tea.WithAltScreen())

	_, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("running terminal widget: %w", err)
	}

	return nil
}
