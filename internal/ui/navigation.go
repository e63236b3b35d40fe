package ui

import (
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging/events"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// selectOption runs a selection through the machine and returns the
// commands its callbacks queued.
func (m *Model) selectOption(opt *cascade.Option, depth int) tea.Cmd {
	if opt == nil {
		return nil
	}
	outcome, err := m.machine.Select(opt, depth)
	events.Cascade.Select(opt.Value, depth, outcome, m.machine.ActiveValue())
	if err != nil {
		m.errMsg = err.Error()
		logging.Error(err)
		events.Cascade.Error(err)
	} else if outcome != cascade.OutcomeIgnored {
		m.errMsg = ""
	}
	if m.closing {
		m.closing = false
		m.setVisible(false)
	}
	m.syncColumns()
	return m.takeQueued()
}

// onCommit is the machine's OnChange callback.
func (m *Model) onCommit(c cascade.Commit) {
	events.Cascade.Commit(c)
	m.committed = true
	quit := c.Visibility == cascade.VisibilityClosed && m.exitOnCommit
	if c.Visibility == cascade.VisibilityClosed {
		m.closing = true
	}
	if m.tmuxBuffer != "" {
		m.queued = append(m.queued, m.tmuxBufferCmd(c))
		m.sinks++
		if quit {
			m.quitting = true
		}
		return
	}
	if quit {
		m.quitting = true
		m.queued = append(m.queued, tea.Quit)
	}
}

// onLoadData is the machine's LoadData callback.
func (m *Model) onLoadData(req cascade.LoadRequest) {
	start := len(m.inflight) == 0
	m.inflight[req.ID] = req.Path()
	m.queued = append(m.queued, m.loadChildrenCmd(req))
	if start {
		m.queued = append(m.queued, m.spinner.Tick)
	}
}

func (m *Model) setVisible(visible bool) {
	wasVisible := m.machine.Visible()
	m.machine.SetVisible(visible)
	if visible == wasVisible {
		return
	}
	events.Cascade.Visible(visible, m.machine.ActiveValue())
	if !visible {
		m.cancelHover("closed")
		return
	}
	m.syncColumns()
	for _, col := range m.columns {
		col.Follow()
	}
}

type hoverTarget struct {
	depth int
	index int
}

var noHover = hoverTarget{depth: -1, index: -1}

type hoverFireMsg struct {
	ticket cascade.Ticket
}

// hoverOption routes pointer motion. Entering an expandable option under
// the hover trigger schedules its selection; entering anything else
// cancels what is pending.
func (m *Model) hoverOption(target hoverTarget, opt *cascade.Option) tea.Cmd {
	if target == m.hovered {
		return nil
	}
	m.hovered = target
	if m.trigger != cascade.TriggerHover || opt == nil || opt.Disabled || !opt.HasChildren() {
		m.cancelHover("leave")
		return nil
	}
	depth := target.depth
	ticket := m.hover.Schedule(func() {
		m.deferred = m.selectOption(opt, depth)
	})
	events.Hover.Schedule(opt.Value, depth, ticket)
	return tea.Tick(m.hover.Delay(), func(time.Time) tea.Msg {
		return hoverFireMsg{ticket: ticket}
	})
}

func (m *Model) cancelHover(reason string) {
	if m.hover.Pending() {
		m.hover.Cancel()
		events.Hover.Cancel(reason)
	}
}

func (m *Model) handleHoverFireMsg(msg tea.Msg) tea.Cmd {
	fire, ok := msg.(hoverFireMsg)
	if !ok {
		return nil
	}
	ran := m.hover.Fire(fire.ticket)
	events.Hover.Fire(fire.ticket, ran)
	cmd := m.deferred
	m.deferred = nil
	return cmd
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		m.cancelHover("quit")
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Toggle):
		m.setVisible(!m.machine.Visible())
	case key.Matches(keyMsg, m.keys.Close):
		m.setVisible(false)
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func newRequestID() string {
	return uuid.NewString()
}
