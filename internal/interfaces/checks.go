package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/tui"
)

// =============================================================================
// Backend Transport
// =============================================================================

// Backend implementations
var _ bookform.Backend = (*booksapi.Client)(nil)

// =============================================================================
// User Interaction
// =============================================================================

// Confirmer implementations
var _ bookform.Confirmer = bookform.ConfirmFunc(nil)

// Alerter implementations
var _ bookform.Alerter = bookform.AlertFunc(nil)

// =============================================================================
// Front Ends
// =============================================================================

// tea.Model implementations
var _ tea.Model = tui.Model{}
