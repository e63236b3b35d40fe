package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/tmux-popup-cascade/internal/app"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
	"github.com/caarlos0/env/v11"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// environment holds the defaults read from CASCADE_* variables. Flags
// override every field.
type environment struct {
	Tree           string `env:"CASCADE_TREE"`
	Format         string `env:"CASCADE_FORMAT"`
	Value          string `env:"CASCADE_VALUE"`
	Trigger        string `env:"CASCADE_TRIGGER" envDefault:"click"`
	HoverDelay     int    `env:"CASCADE_HOVER_DELAY_MS" envDefault:"300"`
	ChangeOnSelect bool   `env:"CASCADE_CHANGE_ON_SELECT"`
	Loader         string `env:"CASCADE_LOADER" envDefault:"none"`
	LoaderRoot     string `env:"CASCADE_LOADER_ROOT"`
	LoaderDB       string `env:"CASCADE_LOADER_DB"`
	LoaderCmd      string `env:"CASCADE_LOADER_CMD"`
	LoadTimeout    int    `env:"CASCADE_LOAD_TIMEOUT_MS" envDefault:"10000"`
	Watch          int    `env:"CASCADE_WATCH_MS"`
	Separator      string `env:"CASCADE_SEPARATOR" envDefault:"/"`
	Print          string `env:"CASCADE_PRINT" envDefault:"values"`
	TmuxBuffer     string `env:"CASCADE_TMUX_BUFFER"`
	Socket         string `env:"CASCADE_SOCKET"`
	Width          int    `env:"CASCADE_WIDTH"`
	Height         int    `env:"CASCADE_HEIGHT"`
	Footer         bool   `env:"CASCADE_FOOTER"`
	ExitOnCommit   bool   `env:"CASCADE_EXIT_ON_COMMIT" envDefault:"true"`
	Trace          bool   `env:"CASCADE_TRACE"`
	LogFile        string `env:"CASCADE_LOG_FILE"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	var defaults environment
	if err := env.ParseWithOptions(&defaults, env.Options{Environment: env.ToMap(environ)}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("tmux-popup-cascade", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	treePath := fs.String("tree", defaults.Tree, "option tree file (.json, .yaml, .toml); - reads stdin")
	format := fs.String("format", defaults.Format, "tree format when reading stdin or overriding the extension")
	value := fs.String("value", defaults.Value, "initial committed path, joined by the separator")
	trigger := fs.String("trigger", defaults.Trigger, "column expansion trigger: click or hover")
	hoverDelay := fs.Int("hover-delay", defaults.HoverDelay, "hover expansion delay in milliseconds")
	changeOnSelect := fs.Bool("change-on-select", defaults.ChangeOnSelect, "commit on every level instead of only on leaves")
	loader := fs.String("loader", defaults.Loader, "lazy child loader: none, dir, sqlite, or exec")
	loaderRoot := fs.String("loader-root", defaults.LoaderRoot, "root directory for the dir loader")
	loaderDB := fs.String("loader-db", defaults.LoaderDB, "database file for the sqlite loader")
	loaderCmd := fs.String("loader-cmd", defaults.LoaderCmd, "command for the exec loader; the path is appended as arguments")
	loadTimeout := fs.Int("load-timeout", defaults.LoadTimeout, "lazy load timeout in milliseconds")
	watch := fs.Int("watch", defaults.Watch, "reload the tree file every N milliseconds (0 disables)")
	separator := fs.String("separator", defaults.Separator, "separator used for --value and printed paths")
	printMode := fs.String("print", defaults.Print, "print committed values or labels on exit")
	tmuxBuffer := fs.String("tmux-buffer", defaults.TmuxBuffer, "also store the committed path in this tmux buffer")
	socket := fs.String("socket", defaults.Socket, "path to the tmux socket used with --tmux-buffer")
	width := fs.Int("width", defaults.Width, "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", defaults.Height, "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", defaults.Footer, "enable footer hint row")
	exitOnCommit := fs.Bool("exit-on-commit", defaults.ExitOnCommit, "quit after a commit that closes the menu")
	list := fs.Bool("list", false, "print every leaf path and exit")
	trace := fs.Bool("trace", defaults.Trace, "enable verbose JSON trace logging")
	logFile := fs.String("log-file", defaults.LogFile, "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			TreePath:       *treePath,
			Format:         *format,
			Value:          *value,
			Trigger:        *trigger,
			HoverDelayMS:   *hoverDelay,
			ChangeOnSelect: *changeOnSelect,
			Loader:         *loader,
			LoaderRoot:     *loaderRoot,
			LoaderDB:       *loaderDB,
			LoaderCmd:      *loaderCmd,
			LoadTimeoutMS:  *loadTimeout,
			WatchMS:        *watch,
			Separator:      *separator,
			Print:          *printMode,
			TmuxBuffer:     *tmuxBuffer,
			SocketPath:     *socket,
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
			ExitOnCommit:   *exitOnCommit,
			List:           *list,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"tree":           *treePath,
			"format":         *format,
			"value":          *value,
			"trigger":        *trigger,
			"hoverDelay":     strconv.Itoa(*hoverDelay),
			"changeOnSelect": strconv.FormatBool(*changeOnSelect),
			"loader":         *loader,
			"watch":          strconv.Itoa(*watch),
			"print":          *printMode,
			"tmuxBuffer":     *tmuxBuffer,
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"exitOnCommit":   strconv.FormatBool(*exitOnCommit),
			"list":           strconv.FormatBool(*list),
			"trace":          strconv.FormatBool(*trace),
			"logFile":        *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the options fit together before any file is opened.
func Validate(cfg Config) error {
	a := cfg.App
	if _, err := cascade.ParseTrigger(a.Trigger); err != nil {
		return err
	}
	if a.HoverDelayMS < 0 || a.LoadTimeoutMS < 0 || a.WatchMS < 0 {
		return fmt.Errorf("durations must be >= 0")
	}
	if a.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	switch a.Print {
	case app.PrintValues, app.PrintLabels:
	default:
		return fmt.Errorf("print must be %q or %q (got %q)", app.PrintValues, app.PrintLabels, a.Print)
	}
	if a.TreePath == "-" {
		if _, err := tree.ParseFormat(a.Format); err != nil {
			return fmt.Errorf("--format is required when reading stdin: %w", err)
		}
	}
	if a.TreePath == "-" && a.WatchMS > 0 {
		return fmt.Errorf("--watch needs a tree file, not stdin")
	}
	switch a.Loader {
	case app.LoaderNone:
		if a.TreePath == "" {
			return fmt.Errorf("--tree is required unless a loader provides the root options")
		}
	case app.LoaderDir:
		if strings.TrimSpace(a.LoaderRoot) == "" {
			return fmt.Errorf("--loader-root is required for the dir loader")
		}
	case app.LoaderSQLite:
		if strings.TrimSpace(a.LoaderDB) == "" {
			return fmt.Errorf("--loader-db is required for the sqlite loader")
		}
	case app.LoaderExec:
		if strings.TrimSpace(a.LoaderCmd) == "" {
			return fmt.Errorf("--loader-cmd is required for the exec loader")
		}
		if a.TreePath == "" {
			return fmt.Errorf("--tree is required with the exec loader")
		}
	default:
		return fmt.Errorf("unknown loader %q", a.Loader)
	}
	return nil
}
