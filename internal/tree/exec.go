package tree

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/cockroachdb/errors"
)

// ExecLoader runs an external command to fetch children. The request path
// values are appended as arguments; the command prints the children on
// stdout as a JSON list (or {"options": [...]}).
type ExecLoader struct {
	Command []string
}

// ParseCommand splits a command line on whitespace.
func ParseCommand(line string) []string {
	return strings.Fields(line)
}

func (e ExecLoader) Children(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
	if len(e.Command) == 0 {
		return nil, errors.New("exec loader has no command")
	}
	args := append(append([]string(nil), e.Command[1:]...), req.Path()...)
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrapf(err, "%s: %s", e.Command[0], msg)
		}
		return nil, errors.Wrapf(err, "run %s", e.Command[0])
	}
	children, err := Decode(&stdout, FormatJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "%s output", e.Command[0])
	}
	return children, nil
}
