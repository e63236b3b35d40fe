package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// runCommand executes a prepared tmux command; tests replace it.
var runCommand = func(cmd *exec.Cmd) ([]byte, error) {
	return cmd.CombinedOutput()
}

func tmuxArgs(socket string, extra ...string) []string {
	args := make([]string, 0, len(extra)+2)
	if trimmed := strings.TrimSpace(socket); trimmed != "" {
		args = append(args, "-S", trimmed)
	}
	args = append(args, extra...)
	return args
}

func tmuxCmd(socket string, extra ...string) *exec.Cmd {
	args := tmuxArgs(socket, extra...)
	cmd := exec.Command("tmux", args...)
	if dir := socketDir(socket); dir != "" {
		cmd.Env = append(os.Environ(), "TMUX_TMPDIR="+dir)
	}
	return cmd
}

func socketDir(socket string) string {
	trimmed := strings.TrimSpace(socket)
	if trimmed == "" {
		return ""
	}
	return filepath.Dir(trimmed)
}

// SetBuffer stores text in the named tmux paste buffer.
func SetBuffer(socketPath, name, text string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("tmux buffer name is empty")
	}
	out, err := runCommand(tmuxCmd(socketPath, "set-buffer", "-b", name, "--", text))
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return errors.Wrapf(err, "tmux set-buffer %s: %s", name, msg)
		}
		return errors.Wrapf(err, "tmux set-buffer %s", name)
	}
	return nil
}

// ResolveSocketPath picks the tmux socket: the flag value, then the
// server of the enclosing session ($TMUX), then the default socket.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}
