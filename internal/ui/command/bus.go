package command

import (
	"github.com/atomicstack/tmux-popup-cascade/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates one commit sink invocation.
type Request struct {
	ID    string
	Label string
	Run   func() error
}

// Result is delivered back to the model once a request finished.
type Result struct {
	ID    string
	Label string
	Err   error
}

// Bus coordinates the execution of commit sinks.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return Result{ID: req.ID, Label: req.Label}
		}
		err := req.Run()
		events.Command.Result(req.ID, req.Label, err)
		return Result{ID: req.ID, Label: req.Label, Err: err}
	}
}
