package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/backend"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/data/dispatcher"
	"github.com/atomicstack/tmux-popup-cascade/internal/theme"
	"github.com/atomicstack/tmux-popup-cascade/internal/ui/command"
	uistate "github.com/atomicstack/tmux-popup-cascade/internal/ui/state"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type column = uistate.Column

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Tree           cascade.Tree
	Value          cascade.Path
	Trigger        cascade.Trigger
	HoverDelay     time.Duration
	ChangeOnSelect bool
	// Loads resolves lazy children. Nil leaves pending options to be
	// committed as leaves.
	Loads   *backend.Loads
	Watcher *backend.Watcher
	// Separator joins committed labels in the closed view and the tmux
	// buffer.
	Separator    string
	TmuxBuffer   string
	SocketPath   string
	Width        int
	Height       int
	ShowFooter   bool
	ExitOnCommit bool
}

// Result is what the session produced once the program exits.
type Result struct {
	// Committed reports whether any commit happened.
	Committed bool
	Options   []*cascade.Option
}

// Path returns the committed values.
func (r Result) Path() cascade.Path {
	return cascade.PathOf(r.Options)
}

// Model implements the Bubble Tea model for the cascading picker.
type Model struct {
	machine *cascade.Machine
	hover   *cascade.Debouncer
	trigger cascade.Trigger
	// hovered is the option under the pointer, used to detect hover-leave.
	hovered  hoverTarget
	deferred tea.Cmd

	columns  []*column
	inflight map[string]cascade.Path
	spinner  spinner.Model
	keys     keyMap
	help     help.Model

	// queued collects commands produced by machine callbacks during Select.
	queued  []tea.Cmd
	closing bool

	errMsg      string
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	committed    bool
	exitOnCommit bool
	quitting     bool
	separator    string
	tmuxBuffer   string
	socketPath   string
	sinks        int

	handlers map[reflect.Type]msgHandler

	loads      *backend.Loads
	backend    *backend.Watcher
	dispatcher *dispatcher.Dispatcher
	bus        *command.Bus
}

// NewModel initialises the UI state for opts. The menu starts open.
func NewModel(opts Options) *Model {
	m := &Model{
		hover:        cascade.NewDebouncer(opts.HoverDelay),
		trigger:      opts.Trigger,
		hovered:      noHover,
		inflight:     make(map[string]cascade.Path),
		keys:         defaultKeyMap(),
		showFooter:   opts.ShowFooter,
		exitOnCommit: opts.ExitOnCommit,
		separator:    opts.Separator,
		tmuxBuffer:   opts.TmuxBuffer,
		socketPath:   opts.SocketPath,
		loads:        opts.Loads,
		backend:      opts.Watcher,
		dispatcher:   dispatcher.New(),
		bus:          command.New(),
	}
	if m.separator == "" {
		m.separator = "/"
	}
	cfg := cascade.Config{
		Tree:           opts.Tree,
		Value:          opts.Value,
		ChangeOnSelect: opts.ChangeOnSelect,
		OnChange:       m.onCommit,
	}
	if m.loads != nil {
		cfg.LoadData = m.onLoadData
	}
	m.machine = cascade.New(cfg)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	if styles.Loading != nil {
		sp.Style = *styles.Loading
	}
	m.spinner = sp

	h := help.New()
	if styles.Footer != nil {
		h.Styles.ShortDesc = *styles.Footer
		h.Styles.FullDesc = *styles.Footer
	}
	m.help = h

	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
		m.help.Width = opts.Width
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.setVisible(true)
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// Result reports the committed path. It is meaningful once the program
// has exited.
func (m *Model) Result() Result {
	return Result{Committed: m.committed, Options: m.machine.ValueOptions()}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(hoverFireMsg{}):      m.handleHoverFireMsg,
		reflect.TypeOf(childrenLoadedMsg{}): m.handleChildrenLoadedMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResultMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// syncColumns rebuilds the per-column view state from the machine.
func (m *Model) syncColumns() {
	trees := m.machine.Columns()
	next := make([]*column, len(trees))
	for depth, items := range trees {
		active := m.machine.ActiveIndex(depth)
		if depth < len(m.columns) && m.columns[depth] != nil {
			col := m.columns[depth]
			col.Update(items, active)
			next[depth] = col
			continue
		}
		next[depth] = uistate.NewColumn(depth, items, active)
	}
	m.columns = next
}

func (m *Model) takeQueued() tea.Cmd {
	cmds := m.queued
	m.queued = nil
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}
