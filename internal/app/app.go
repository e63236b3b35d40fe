package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/backend"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging/events"
	"github.com/atomicstack/tmux-popup-cascade/internal/tmux"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
	"github.com/atomicstack/tmux-popup-cascade/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
)

const (
	PrintValues = "values"
	PrintLabels = "labels"

	LoaderNone   = "none"
	LoaderDir    = "dir"
	LoaderSQLite = "sqlite"
	LoaderExec   = "exec"
)

// loadInterval spaces lazy loads so click bursts do not flood a loader.
const loadInterval = 50 * time.Millisecond

// ErrCancelled is returned when the picker exits without a commit.
var ErrCancelled = errors.New("selection cancelled")

// Config describes user-provided application options.
type Config struct {
	TreePath       string
	Format         string
	Value          string
	Trigger        string
	HoverDelayMS   int
	ChangeOnSelect bool
	Loader         string
	LoaderRoot     string
	LoaderDB       string
	LoaderCmd      string
	LoadTimeoutMS  int
	WatchMS        int
	Separator      string
	Print          string
	TmuxBuffer     string
	SocketPath     string
	Width          int
	Height         int
	ShowFooter     bool
	ExitOnCommit   bool
	List           bool
}

// Run bootstraps and executes the Bubble Tea program, then prints the
// committed path to stdout.
func Run(cfg Config) error {
	return run(cfg, os.Stdin, os.Stdout)
}

func run(cfg Config, stdin io.Reader, out io.Writer) error {
	src, err := openSource(context.Background(), cfg, stdin)
	if err != nil {
		return err
	}
	defer src.close()
	events.Cascade.Tree(src.name, len(src.roots))

	value, err := initialValue(cfg, src)
	if err != nil {
		return err
	}

	if cfg.List {
		return writeList(out, src.roots, cfg.Separator)
	}

	trigger, err := cascade.ParseTrigger(cfg.Trigger)
	if err != nil {
		return err
	}
	opts := ui.Options{
		Tree:           src.roots,
		Value:          value,
		Trigger:        trigger,
		HoverDelay:     millis(cfg.HoverDelayMS),
		ChangeOnSelect: cfg.ChangeOnSelect,
		Separator:      cfg.Separator,
		TmuxBuffer:     cfg.TmuxBuffer,
		Width:          cfg.Width,
		Height:         cfg.Height,
		ShowFooter:     cfg.ShowFooter,
		ExitOnCommit:   cfg.ExitOnCommit,
	}
	if src.loader != nil {
		loads := backend.NewLoads(src.loader, loadInterval, millis(cfg.LoadTimeoutMS))
		defer loads.Stop()
		opts.Loads = loads
	}
	if cfg.WatchMS > 0 && src.file != "" {
		watcher := backend.NewWatcher(src.file, millis(cfg.WatchMS))
		defer watcher.Stop()
		opts.Watcher = watcher
	}
	if cfg.TmuxBuffer != "" {
		socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
		if err != nil {
			return errors.Wrap(err, "resolve socket path")
		}
		opts.SocketPath = socketPath
	}

	model := ui.NewModel(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}
	if cfg.TreePath == "-" {
		// stdin carried the tree; read keys from the terminal instead
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	program := tea.NewProgram(model, programOpts...)
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	result := model.Result()
	events.App.Exit(result.Committed, result.Path(), err)
	if err != nil {
		return err
	}
	if !result.Committed || len(result.Options) == 0 {
		return ErrCancelled
	}
	_, err = fmt.Fprintln(out, FormatResult(result.Options, cfg.Print, cfg.Separator))
	return err
}

// FormatResult renders a committed option chain as values or labels.
func FormatResult(options []*cascade.Option, mode, separator string) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		if mode == PrintLabels {
			parts[i] = opt.DisplayLabel()
		} else {
			parts[i] = opt.Value
		}
	}
	return strings.Join(parts, separator)
}

// SplitValue parses a separator-joined path. Empty input is the empty path.
func SplitValue(value, separator string) cascade.Path {
	value = strings.TrimSpace(value)
	if value == "" {
		return cascade.Path{}
	}
	parts := strings.Split(value, separator)
	p := make(cascade.Path, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			p = append(p, part)
		}
	}
	return p
}

func initialValue(cfg Config, src *source) (cascade.Path, error) {
	value := SplitValue(cfg.Value, cfg.Separator)
	err := tree.ResolvePath(src.roots, value)
	switch {
	case err == nil:
		return value, nil
	case src.loader != nil && errors.Is(err, tree.ErrNotLoaded):
		// the rest of the path lives below a lazy option; the columns
		// stop where the loaded tree ends
		logging.Trace("app.value.partial", map[string]interface{}{"value": []string(value), "reason": err.Error()})
		return value, nil
	default:
		return nil, errors.Wrap(err, "--value")
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
