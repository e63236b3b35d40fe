package app

import (
	"context"
	"io"
	"os"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
	"github.com/cockroachdb/errors"
)

// source is where the root options and lazy children come from.
type source struct {
	name   string
	roots  cascade.Tree
	loader tree.Loader
	// file is set when the roots came from a file whose extension names
	// its format, so the watcher can reload it.
	file    string
	closers []func() error
}

func (s *source) close() {
	for _, c := range s.closers {
		_ = c()
	}
}

func openSource(ctx context.Context, cfg Config, stdin io.Reader) (*source, error) {
	src := &source{name: cfg.Loader}
	switch cfg.Loader {
	case LoaderDir:
		dir := tree.DirLoader{Root: cfg.LoaderRoot}
		src.loader = dir
		if cfg.TreePath == "" {
			roots, err := dir.Roots(ctx)
			if err != nil {
				return nil, err
			}
			src.roots = roots
			return src, nil
		}
	case LoaderSQLite:
		db, err := tree.OpenSQLite(cfg.LoaderDB)
		if err != nil {
			return nil, err
		}
		src.closers = append(src.closers, db.Close)
		src.loader = db
		if cfg.TreePath == "" {
			roots, err := db.Roots(ctx)
			if err != nil {
				src.close()
				return nil, err
			}
			src.roots = roots
			return src, nil
		}
	case LoaderExec:
		src.loader = tree.ExecLoader{Command: tree.ParseCommand(cfg.LoaderCmd)}
	case LoaderNone, "":
	default:
		return nil, errors.Newf("unknown loader %q", cfg.Loader)
	}

	roots, err := readTree(cfg, stdin)
	if err != nil {
		src.close()
		return nil, err
	}
	src.roots = roots
	src.name = cfg.TreePath
	if cfg.TreePath != "-" && cfg.Format == "" {
		src.file = cfg.TreePath
	}
	return src, nil
}

func readTree(cfg Config, stdin io.Reader) (cascade.Tree, error) {
	if cfg.TreePath == "" {
		return nil, errors.New("no tree file given")
	}
	if cfg.TreePath != "-" && cfg.Format == "" {
		return tree.LoadFile(cfg.TreePath)
	}
	format, err := tree.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.TreePath == "-" {
		return tree.Decode(stdin, format)
	}
	f, err := os.Open(cfg.TreePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open tree %s", cfg.TreePath)
	}
	defer f.Close()
	t, err := tree.Decode(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "decode tree %s", cfg.TreePath)
	}
	return t, nil
}
