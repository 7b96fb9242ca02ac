// Package tui is the interactive terminal front end: a book list with
// pagination next to a create/edit form, both driven by a bookform
// controller.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookshelf/internal/bookform"
)

// Run starts the UI on the alternate screen and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, backend bookform.Backend, opts bookform.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, backend, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run book form UI: %w", err)
	}
	return nil
}
