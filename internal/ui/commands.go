package ui

import (
	"strings"

	"github.com/atomicstack/tmux-popup-cascade/internal/backend"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging"
	"github.com/atomicstack/tmux-popup-cascade/internal/tmux"
	"github.com/atomicstack/tmux-popup-cascade/internal/ui/command"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// childrenLoadedMsg carries a finished lazy load.
type childrenLoadedMsg struct {
	event backend.Event
}

func (m *Model) loadChildrenCmd(req cascade.LoadRequest) tea.Cmd {
	loads := m.loads
	return func() tea.Msg {
		return childrenLoadedMsg{event: loads.Load(req)}
	}
}

func (m *Model) handleChildrenLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(childrenLoadedMsg)
	if !ok {
		return nil
	}
	delete(m.inflight, loaded.event.Request.ID)
	m.applyEvent(loaded.event)
	return nil
}

// applyEvent hands a backend event to the dispatcher and installs the
// resulting snapshot.
func (m *Model) applyEvent(evt backend.Event) {
	res := m.dispatcher.Handle(m.machine.Tree(), evt)
	if res.Err != nil {
		m.errMsg = res.Err.Error()
		logging.Error(res.Err)
		return
	}
	if res.Stale {
		return
	}
	if res.Updated {
		m.errMsg = ""
		m.machine.SetTree(res.Tree)
		m.syncColumns()
	}
}

func (m *Model) loading() bool {
	return len(m.inflight) > 0
}

// loadingActive reports whether a load for the active path is in flight.
func (m *Model) loadingActive() bool {
	active := m.machine.ActiveValue()
	for _, p := range m.inflight {
		if p.Equal(active) {
			return true
		}
	}
	return false
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !m.loading() {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}

func (m *Model) tmuxBufferCmd(c cascade.Commit) tea.Cmd {
	text := strings.Join(c.Path(), m.separator)
	name := m.tmuxBuffer
	socket := m.socketPath
	return m.bus.Execute(command.Request{
		ID:    newRequestID(),
		Label: "tmux-buffer:" + name,
		Run: func() error {
			return tmux.SetBuffer(socket, name, text)
		},
	})
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if m.sinks > 0 {
		m.sinks--
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		logging.Error(result.Err)
	}
	if m.quitting && m.sinks == 0 {
		return tea.Quit
	}
	return nil
}
