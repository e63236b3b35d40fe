package app

import (
	"fmt"
	"io"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/format/table"
)

// leafPaths walks the loaded tree and returns every selectable leaf chain.
// Disabled options and their subtrees are skipped.
func leafPaths(t cascade.Tree) [][]*cascade.Option {
	var out [][]*cascade.Option
	var walk func(options []*cascade.Option, prefix []*cascade.Option)
	walk = func(options []*cascade.Option, prefix []*cascade.Option) {
		for _, opt := range options {
			if opt == nil || opt.Disabled {
				continue
			}
			chain := append(append([]*cascade.Option(nil), prefix...), opt)
			if opt.HasChildren() {
				walk(opt.Children, chain)
				continue
			}
			if opt.PendingChildren() {
				continue
			}
			out = append(out, chain)
		}
	}
	walk(t, nil)
	return out
}

func writeList(w io.Writer, t cascade.Tree, separator string) error {
	paths := leafPaths(t)
	if len(paths) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(paths))
	for _, chain := range paths {
		rows = append(rows, []string{
			FormatResult(chain, PrintValues, separator),
			FormatResult(chain, PrintLabels, " "+separator+" "),
		})
	}
	lines := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
