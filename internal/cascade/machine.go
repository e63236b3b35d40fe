package cascade

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrLoaderMissing marks selections of an option that declares lazy
// children while no LoadData handler is configured. The option is
// committed as a leaf; the error lets the application report the
// misconfiguration.
var ErrLoaderMissing = errors.New("option has pending children but no loader is configured")

// Trigger selects how a column is expanded.
type Trigger int

const (
	TriggerClick Trigger = iota
	TriggerHover
)

// ParseTrigger converts "click" or "hover" into a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "click":
		return TriggerClick, nil
	case "hover":
		return TriggerHover, nil
	}
	return TriggerClick, errors.Newf("unknown expand trigger %q (want click or hover)", s)
}

func (t Trigger) String() string {
	if t == TriggerHover {
		return "hover"
	}
	return "click"
}

// Outcome describes what a Select call did.
type Outcome int

const (
	// OutcomeIgnored means nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeLoading means a LoadRequest was emitted.
	OutcomeLoading
	// OutcomeCommitted means a Commit was emitted.
	OutcomeCommitted
	// OutcomeExpanded means only the active path moved.
	OutcomeExpanded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeCommitted:
		return "committed"
	case OutcomeExpanded:
		return "expanded"
	default:
		return "ignored"
	}
}

// Config wires a Machine to its tree and collaborator callbacks.
type Config struct {
	Tree Tree
	// Value is the initial committed path.
	Value Path
	// ChangeOnSelect commits on every level, not just on leaves.
	ChangeOnSelect bool
	OnChange       func(Commit)
	// LoadData is optional. When nil, options with pending children are
	// treated as leaves.
	LoadData func(LoadRequest)
}

// Machine owns the committed and active paths of a cascading selector.
// It is not safe for concurrent use; drive it from a single event loop.
type Machine struct {
	tree           Tree
	value          Path
	active         Path
	visible        bool
	changeOnSelect bool
	onChange       func(Commit)
	loadData       func(LoadRequest)
}

// New constructs a Machine. Both paths start at cfg.Value.
func New(cfg Config) *Machine {
	initial := cfg.Value.Clone()
	if initial == nil {
		initial = Path{}
	}
	return &Machine{
		tree:           cfg.Tree,
		value:          initial,
		active:         initial.Clone(),
		changeOnSelect: cfg.ChangeOnSelect,
		onChange:       cfg.OnChange,
		loadData:       cfg.LoadData,
	}
}

// Select activates opt, found in the column at depth.
func (m *Machine) Select(opt *Option, depth int) (Outcome, error) {
	if opt == nil || opt.Disabled {
		return OutcomeIgnored, nil
	}
	if depth < 0 || depth > len(m.active) {
		return OutcomeIgnored, nil
	}
	next := make(Path, depth+1)
	copy(next, m.active[:depth])
	next[depth] = opt.Value
	matched := MatchOptions(m.tree, next)

	if opt.PendingChildren() && m.loadData != nil {
		m.loadData(newLoadRequest(matched))
		m.active = next
		return OutcomeLoading, nil
	}

	var err error
	outcome := OutcomeExpanded
	switch {
	case !opt.HasChildren():
		if opt.PendingChildren() {
			err = errors.Wrapf(ErrLoaderMissing, "select %q at depth %d", opt.Value, depth)
		}
		m.commit(matched, next, VisibilityClosed)
		outcome = OutcomeCommitted
	case m.changeOnSelect:
		m.commit(matched, next, VisibilityOpen)
		outcome = OutcomeCommitted
	}
	m.active = next
	return outcome, err
}

func (m *Machine) commit(matched []*Option, next Path, visibility Visibility) {
	if m.onChange != nil {
		m.onChange(Commit{Options: matched, Visibility: visibility})
	}
	m.value = next.Clone()
}

// SetTree replaces the tree snapshot. Paths are kept as-is; queries
// truncate at the first value the new tree no longer contains.
func (m *Machine) SetTree(tree Tree) {
	m.tree = tree
}

// SetValue replaces the committed path from outside, leaving the active
// path alone. A nil path clears the value.
func (m *Machine) SetValue(p Path) {
	if p == nil {
		m.value = Path{}
		return
	}
	m.value = p.Clone()
}

// SetVisible records menu visibility. Opening a hidden menu resets the
// active path to the committed value.
func (m *Machine) SetVisible(visible bool) {
	if visible && !m.visible {
		m.active = m.value.Clone()
	}
	m.visible = visible
}

// Tree returns the current snapshot.
func (m *Machine) Tree() Tree { return m.tree }

// Value returns a copy of the committed path.
func (m *Machine) Value() Path { return m.value.Clone() }

// ActiveValue returns a copy of the active path.
func (m *Machine) ActiveValue() Path { return m.active.Clone() }

// Visible reports the last visibility passed to SetVisible.
func (m *Machine) Visible() bool { return m.visible }

// Columns returns the columns visible for the active path.
func (m *Machine) Columns() []Tree {
	return VisibleColumns(m.tree, m.active)
}

// ActiveOptions returns the matched chain for the active path.
func (m *Machine) ActiveOptions() []*Option {
	return MatchOptions(m.tree, m.active)
}

// ValueOptions returns the matched chain for the committed path.
func (m *Machine) ValueOptions() []*Option {
	return MatchOptions(m.tree, m.value)
}

// ActiveIndex returns the index of the active option in the column at
// depth, or -1.
func (m *Machine) ActiveIndex(depth int) int {
	columns := m.Columns()
	if depth < 0 || depth >= len(columns) {
		return -1
	}
	return ActiveIndex(columns[depth], m.active, depth)
}
