package bookform

import "context"

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Alerter shows a blocking, one-off failure notice. Used instead of the
// persistent error surface when the controller runs in alert mode.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) {
	f(message)
}

// ErrorMode selects how failures are reported.
type ErrorMode string

const (
	ErrorModeSurface ErrorMode = "surface"
	ErrorModeAlert   ErrorMode = "alert"
)

// Valid reports whether the mode is known.
func (m ErrorMode) Valid() bool {
	return m == ErrorModeSurface || m == ErrorModeAlert
}
