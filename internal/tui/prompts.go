package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookshelf/internal/bookform"
)

var (
	_ bookform.Confirmer = (*promptConfirmer)(nil)
	_ bookform.Alerter   = (*channelAlerter)(nil)
)

// confirmRequest is a pending yes/no question from the controller. The
// model answers it on reply exactly once.
type confirmRequest struct {
	prompt string
	reply  chan bool
}

type confirmRequestMsg struct {
	request confirmRequest
}

// promptConfirmer hands confirmation requests from controller goroutines
// to the UI loop and blocks for the answer.
type promptConfirmer struct {
	requests chan confirmRequest
}

func newPromptConfirmer() *promptConfirmer {
	return &promptConfirmer{requests: make(chan confirmRequest)}
}

func (p *promptConfirmer) Confirm(ctx context.Context, prompt string) bool {
	request := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
	select {
	case p.requests <- request:
	case <-ctx.Done():
		return false
	}
	select {
	case answer := <-request.reply:
		return answer
	case <-ctx.Done():
		return false
	}
}

func waitForConfirm(requests <-chan confirmRequest) tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg{request: <-requests}
	}
}

type alertMsg struct {
	message string
}

// channelAlerter forwards alerts to the UI loop. Alerts beyond the buffer
// are dropped rather than blocking the controller.
type channelAlerter struct {
	alerts chan string
}

func newChannelAlerter() *channelAlerter {
	return &channelAlerter{alerts: make(chan string, 8)}
}

func (a *channelAlerter) Alert(message string) {
	select {
	case a.alerts <- message:
	default:
	}
}

func waitForAlert(alerts <-chan string) tea.Cmd {
	return func() tea.Msg {
		return alertMsg{message: <-alerts}
	}
}
