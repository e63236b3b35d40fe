package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/tmux-popup-cascade/internal/app"
	"github.com/atomicstack/tmux-popup-cascade/internal/config"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging"
	"github.com/atomicstack/tmux-popup-cascade/internal/logging/events"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// exitCancelled is the status when the program quits without a commit.
const exitCancelled = 130

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	if err := app.Run(runtimeCfg.App); err != nil {
		if errors.Is(err, app.ErrCancelled) {
			os.Exit(exitCancelled)
		}
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hints)
		}
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
	// InputTTY reports whether the controlling terminal can be opened,
	// which --tree - needs for keyboard and mouse input.
	InputTTY bool `json:"input_tty"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects the standard descriptors and the controlling
// terminal for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	files := []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	}
	var info ttyDetails
	for _, f := range files {
		info.addProbe(probeTTY(f.name, int(f.file.Fd())))
	}
	if tty, err := os.Open("/dev/tty"); err == nil {
		info.InputTTY = true
		info.addProbe(probeTTY("tty", int(tty.Fd())))
		_ = tty.Close()
	}
	return info
}

func (d *ttyDetails) addProbe(entry ttyProbeResult) {
	d.Probes = append(d.Probes, entry)
	if d.Detected == nil && entry.IsTerminal && entry.Error == "" {
		d.Detected = &ttyDetected{Source: entry.Name, Width: entry.Width, Height: entry.Height}
	}
}

func probeTTY(name string, fd int) ttyProbeResult {
	entry := ttyProbeResult{Name: name}
	if fd < 0 || !term.IsTerminal(fd) {
		return entry
	}
	entry.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Width = width
	entry.Height = height
	return entry
}
