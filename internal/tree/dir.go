package tree

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/cockroachdb/errors"
)

// DirLoader serves a directory hierarchy: directories load lazily, files
// are leaves.
type DirLoader struct {
	Root       string
	ShowHidden bool
}

// Roots lists the top level of the directory.
func (d DirLoader) Roots(ctx context.Context) (cascade.Tree, error) {
	children, err := d.list(ctx, d.Root)
	if err != nil {
		return nil, err
	}
	return cascade.Tree(children), nil
}

// Children lists the directory named by the request path.
func (d DirLoader) Children(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
	parts := make([]string, 0, len(req.Options)+1)
	parts = append(parts, d.Root)
	for _, value := range req.Path() {
		if value == ".." || strings.ContainsRune(value, filepath.Separator) {
			return nil, errors.Newf("refusing path segment %q", value)
		}
		parts = append(parts, value)
	}
	return d.list(ctx, filepath.Join(parts...))
}

func (d DirLoader) list(ctx context.Context, dir string) ([]*cascade.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	out := make([]*cascade.Option, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !d.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		opt := &cascade.Option{Value: name, Label: name}
		if entry.IsDir() {
			opt.Label = name + "/"
			opt.IsLeaf = cascade.Bool(false)
		} else {
			opt.IsLeaf = cascade.Bool(true)
		}
		out = append(out, opt)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := !*out[i].IsLeaf, !*out[j].IsLeaf
		if di != dj {
			return di
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}
