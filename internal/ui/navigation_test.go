package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/backend"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
)

func regions() cascade.Tree {
	return cascade.Tree{
		{Value: "CA", Label: "California", Children: []*cascade.Option{
			{Value: "LA", Label: "Los Angeles"},
			{Value: "SF", Label: "San Francisco"},
		}},
		{Value: "NY", Label: "New York", Children: []*cascade.Option{
			{Value: "NYC", Label: "New York City"},
		}},
		{Value: "TX", Label: "Texas", IsLeaf: cascade.Bool(false)},
		{Value: "WA", Label: "Washington", Disabled: true},
	}
}

// cellOf returns screen coordinates inside the option at depth/index.
func cellOf(t *testing.T, m *Model, depth, index int) (int, int) {
	t.Helper()
	maxVisible := m.maxVisibleItems()
	m.prepareColumns(maxVisible)
	for _, box := range m.layout() {
		if box.depth != depth {
			continue
		}
		start, _ := m.columns[depth].VisibleRange(maxVisible)
		return box.x + 2, headerRows + index - start
	}
	t.Fatalf("column %d is not visible", depth)
	return 0, 0
}

func clickOption(t *testing.T, h *Harness, depth, index int) {
	t.Helper()
	x, y := cellOf(t, h.Model(), depth, index)
	h.Click(x, y)
}

func TestClickLeafCommitsClosesAndQuits(t *testing.T) {
	h := NewHarness(NewModel(Options{Tree: regions(), ExitOnCommit: true}))

	clickOption(t, h, 0, 0)
	m := h.Model()
	if got := m.machine.ActiveValue(); !got.Equal(cascade.Path{"CA"}) {
		t.Fatalf("expected active path CA, got %v", got)
	}
	if len(m.columns) != 2 {
		t.Fatalf("expected two columns, got %d", len(m.columns))
	}
	if m.Result().Committed {
		t.Fatalf("expected no commit for a parent option")
	}

	clickOption(t, h, 1, 0)
	res := m.Result()
	if !res.Committed || !res.Path().Equal(cascade.Path{"CA", "LA"}) {
		t.Fatalf("expected CA/LA committed, got %#v", res)
	}
	if m.machine.Visible() {
		t.Fatalf("expected menu closed after leaf commit")
	}
	if !m.quitting {
		t.Fatalf("expected quit after commit")
	}
}

func TestCommitWithoutExitReopensAtValue(t *testing.T) {
	h := NewHarness(NewModel(Options{Tree: regions()}))
	clickOption(t, h, 0, 0)
	clickOption(t, h, 1, 1)

	m := h.Model()
	if m.quitting {
		t.Fatalf("expected program to keep running")
	}
	if !strings.Contains(h.View(), "California / San Francisco") {
		t.Fatalf("expected committed labels in closed view, got:\n%s", h.View())
	}

	// wander off before closing so reopening has something to reset
	h.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	clickOption(t, h, 0, 1)
	if got := m.machine.ActiveValue(); !got.Equal(cascade.Path{"NY"}) {
		t.Fatalf("expected active NY, got %v", got)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.machine.ActiveValue(); !got.Equal(cascade.Path{"CA", "SF"}) {
		t.Fatalf("expected reopen to restore CA/SF, got %v", got)
	}
	if m.columns[1].Active != 1 {
		t.Fatalf("expected SF highlighted, got %d", m.columns[1].Active)
	}
}

func TestClickDisabledOptionIsIgnored(t *testing.T) {
	h := NewHarness(NewModel(Options{Tree: regions(), ExitOnCommit: true}))
	clickOption(t, h, 0, 3)
	m := h.Model()
	if len(m.machine.ActiveValue()) != 0 || m.Result().Committed || m.quitting {
		t.Fatalf("expected disabled click to do nothing")
	}
}

func TestChangeOnSelectCommitsWhileOpen(t *testing.T) {
	h := NewHarness(NewModel(Options{Tree: regions(), ChangeOnSelect: true, ExitOnCommit: true}))
	clickOption(t, h, 0, 1)
	m := h.Model()
	res := m.Result()
	if !res.Committed || !res.Path().Equal(cascade.Path{"NY"}) {
		t.Fatalf("expected NY committed, got %#v", res)
	}
	if !m.machine.Visible() || m.quitting {
		t.Fatalf("expected menu to stay open")
	}
}

func TestHoverExpandsAfterDelay(t *testing.T) {
	h := NewHarness(NewModel(Options{
		Tree:       regions(),
		Trigger:    cascade.TriggerHover,
		HoverDelay: 5 * time.Millisecond,
	}))
	x, y := cellOf(t, h.Model(), 0, 1)
	h.Move(x, y)
	if got := h.Model().machine.ActiveValue(); !got.Equal(cascade.Path{"NY"}) {
		t.Fatalf("expected hover to expand NY, got %v", got)
	}
}

func TestHoverLeaveCancelsPendingExpansion(t *testing.T) {
	m := NewModel(Options{
		Tree:       regions(),
		Trigger:    cascade.TriggerHover,
		HoverDelay: 5 * time.Millisecond,
	})
	x, y := cellOf(t, m, 0, 0)
	_, tick := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if tick == nil {
		t.Fatalf("expected hover to schedule a tick")
	}
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: 0, Action: tea.MouseActionMotion})
	if cmd != nil {
		t.Fatalf("expected no command when leaving")
	}
	m.Update(tick())
	if len(m.machine.ActiveValue()) != 0 {
		t.Fatalf("expected cancelled hover not to expand, got %v", m.machine.ActiveValue())
	}
}

func TestHoverOnlySchedulesForOptionsWithChildren(t *testing.T) {
	m := NewModel(Options{Tree: regions(), Trigger: cascade.TriggerHover})
	for _, idx := range []int{2, 3} {
		x, y := cellOf(t, m, 0, idx)
		if _, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}); cmd != nil {
			t.Fatalf("expected no hover schedule for option %d", idx)
		}
	}
	click := NewModel(Options{Tree: regions()})
	x, y := cellOf(t, click, 0, 0)
	if _, cmd := click.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}); cmd != nil {
		t.Fatalf("expected click trigger to ignore hover")
	}
}

func TestLazyLoadAttachesChildren(t *testing.T) {
	var calls int
	loader := tree.LoaderFunc(func(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
		calls++
		return []*cascade.Option{{Value: "AUS", Label: "Austin"}, {Value: "DAL", Label: "Dallas"}}, nil
	})
	loads := backend.NewLoads(loader, 0, time.Second)
	t.Cleanup(loads.Stop)
	h := NewHarness(NewModel(Options{Tree: regions(), Loads: loads, ExitOnCommit: true}))

	clickOption(t, h, 0, 2)
	m := h.Model()
	if calls != 1 {
		t.Fatalf("expected one load, got %d", calls)
	}
	if len(m.inflight) != 0 {
		t.Fatalf("expected no loads in flight, got %v", m.inflight)
	}
	if len(m.columns) != 2 || m.columns[1].Items[0].Value != "AUS" {
		t.Fatalf("expected loaded column, got %d columns", len(m.columns))
	}
	if m.Result().Committed {
		t.Fatalf("expected no commit while loading")
	}

	clickOption(t, h, 1, 1)
	if got := m.Result().Path(); !got.Equal(cascade.Path{"TX", "DAL"}) {
		t.Fatalf("expected TX/DAL committed, got %v", got)
	}
}

func TestLoadingColumnShownWhileInFlight(t *testing.T) {
	loads := backend.NewLoads(tree.LoaderFunc(func(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
		return nil, nil
	}), 0, time.Second)
	t.Cleanup(loads.Stop)
	m := NewModel(Options{Tree: regions(), Loads: loads, Width: 80, Height: 10})
	x, y := cellOf(t, m, 0, 2)
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatalf("expected load command")
	}
	if !strings.Contains(m.View(), "loading") {
		t.Fatalf("expected loading column, got:\n%s", m.View())
	}
}

func TestLoadFailureLeavesColumnAbsent(t *testing.T) {
	loads := backend.NewLoads(tree.LoaderFunc(func(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
		return nil, errors.New("backend down")
	}), 0, time.Second)
	t.Cleanup(loads.Stop)
	h := NewHarness(NewModel(Options{Tree: regions(), Loads: loads}))

	clickOption(t, h, 0, 2)
	m := h.Model()
	if len(m.columns) != 1 {
		t.Fatalf("expected only the root column, got %d", len(m.columns))
	}
	if !strings.Contains(m.errMsg, "backend down") {
		t.Fatalf("expected load error in status, got %q", m.errMsg)
	}
	if got := m.machine.ActiveValue(); !got.Equal(cascade.Path{"TX"}) {
		t.Fatalf("expected TX to stay active, got %v", got)
	}
}

func TestMissingLoaderCommitsPendingOptionAsLeaf(t *testing.T) {
	h := NewHarness(NewModel(Options{Tree: regions()}))
	clickOption(t, h, 0, 2)
	m := h.Model()
	if got := m.Result().Path(); !got.Equal(cascade.Path{"TX"}) {
		t.Fatalf("expected TX committed, got %v", got)
	}
	if !strings.Contains(m.errMsg, "no loader") {
		t.Fatalf("expected missing loader error, got %q", m.errMsg)
	}
	if !strings.Contains(h.View(), "Error:") {
		t.Fatalf("expected error in view")
	}
}

func TestTmuxBufferSinkRunsBeforeQuit(t *testing.T) {
	h := NewHarness(NewModel(Options{
		Tree:         regions(),
		ExitOnCommit: true,
		TmuxBuffer:   "cascade",
		SocketPath:   t.TempDir() + "/missing.sock",
	}))
	clickOption(t, h, 0, 0)
	clickOption(t, h, 1, 0)
	m := h.Model()
	if !m.quitting {
		t.Fatalf("expected quit after the sink finished")
	}
	if m.sinks != 0 {
		t.Fatalf("expected no pending sinks, got %d", m.sinks)
	}
}

func TestKeysCloseAndQuit(t *testing.T) {
	m := NewModel(Options{Tree: regions()})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.machine.Visible() {
		t.Fatalf("expected esc to close the menu")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if m.Result().Committed {
		t.Fatalf("expected no commit on quit")
	}
}

func TestClickWhileClosedReopens(t *testing.T) {
	m := NewModel(Options{Tree: regions(), Value: cascade.Path{"NY", "NYC"}})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.machine.Visible() {
		t.Fatalf("expected click to reopen")
	}
	if got := m.machine.ActiveValue(); !got.Equal(cascade.Path{"NY", "NYC"}) {
		t.Fatalf("expected active path reset to the value, got %v", got)
	}
}
