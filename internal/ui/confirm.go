package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmRequest is a question waiting for a y/n key.
type confirmRequest struct {
	prompt string
	reply  chan bool
}

// Confirmer asks yes/no questions through the TUI. The controller calls
// Confirm from a command goroutine; the model answers it from Update.
type Confirmer struct {
	requests chan confirmRequest
}

// NewConfirmer returns a Confirmer to pass to both the controller and RunTUI.
func NewConfirmer() *Confirmer {
	return &Confirmer{requests: make(chan confirmRequest)}
}

// Confirm blocks until the user answers or ctx is done.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type confirmMsg confirmRequest

func waitForConfirm(ctx context.Context, c *Confirmer) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-c.requests:
			return confirmMsg(req)
		case <-ctx.Done():
			return nil
		}
	}
}
