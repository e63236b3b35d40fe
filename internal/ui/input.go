package ui

import (
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const wheelStep = 3

// keyMap holds the few key bindings the picker has. Options are chosen
// with the mouse.
type keyMap struct {
	Toggle key.Binding
	Close  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "open/close"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Close, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Close}, {k.Help, k.Quit}}
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if !m.machine.Visible() {
		if ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft {
			m.setVisible(true)
		}
		return nil
	}
	switch {
	case ev.Button == tea.MouseButtonWheelUp:
		m.scrollColumnAt(ev.X, -wheelStep)
	case ev.Button == tea.MouseButtonWheelDown:
		m.scrollColumnAt(ev.X, wheelStep)
	case ev.Action == tea.MouseActionMotion:
		target, opt, ok := m.hitTest(ev.X, ev.Y)
		if !ok {
			return m.hoverOption(noHover, nil)
		}
		return m.hoverOption(target, opt)
	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		target, opt, ok := m.hitTest(ev.X, ev.Y)
		if !ok {
			return nil
		}
		m.cancelHover("click")
		m.hovered = target
		return m.selectOption(opt, target.depth)
	}
	return nil
}

// hitTest maps a cell to the option drawn there.
func (m *Model) hitTest(x, y int) (hoverTarget, *cascade.Option, bool) {
	row := y - headerRows
	if row < 0 {
		return noHover, nil, false
	}
	maxVisible := m.maxVisibleItems()
	if maxVisible > 0 && row >= maxVisible {
		return noHover, nil, false
	}
	m.prepareColumns(maxVisible)
	for _, box := range m.layout() {
		if x < box.x || x >= box.x+box.width {
			continue
		}
		if box.depth < 0 || box.depth >= len(m.columns) {
			return noHover, nil, false
		}
		col := m.columns[box.depth]
		idx := col.IndexAt(row, maxVisible)
		if idx < 0 {
			return noHover, nil, false
		}
		return hoverTarget{depth: box.depth, index: idx}, col.Items[idx], true
	}
	return noHover, nil, false
}

func (m *Model) scrollColumnAt(x, delta int) {
	maxVisible := m.maxVisibleItems()
	for _, box := range m.layout() {
		if box.depth < 0 || x < box.x || x >= box.x+box.width {
			continue
		}
		m.columns[box.depth].ScrollBy(delta, maxVisible)
		return
	}
}
