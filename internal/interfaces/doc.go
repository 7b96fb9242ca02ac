// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Controller Ports
//
//   - Backend: the remote /books collection (internal/bookform/controller.go)
//   - Confirmer: approval of destructive actions (internal/bookform/ports.go)
//   - Alerter: one-off failure notices in alert mode (internal/bookform/ports.go)
//
// ## Front Ends
//
//   - tea.Model: the interactive UI (internal/tui/model.go)
//   - command: ParseFlags/Run subcommands dispatched from main.go (internal/cli)
//
// # Adding a New Front End
//
// Front ends own a bookform.Controller and render its State:
//
//  1. Build a client for the backend:
//
//     client, err := booksapi.NewClient(booksapi.Options{BaseURL: cfg.API.BaseURL})
//
//  2. Supply a Confirmer and an Alerter that fit the medium:
//
//     opts := cfg.ControllerOptions()
//     opts.Confirmer = bookform.ConfirmFunc(func(ctx context.Context, prompt string) bool {
//         return askUser(prompt)
//     })
//
//  3. Drive the controller and render ctrl.Snapshot() after each call:
//
//     ctrl := bookform.NewController(client, opts)
//     if !ctrl.Load(ctx) { ... }
//     view.Render(os.Stdout, ctrl.Snapshot(), ctrl.KeyField())
//
// # Adding a New Backend
//
// Anything that speaks the /books contract can stand in for the REST client:
//
//	type OfflineBackend struct { books map[string]entities.Book }
//
//	var _ bookform.Backend = (*OfflineBackend)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
