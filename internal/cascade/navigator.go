package cascade

// MatchOptions walks path from the root and returns the option chosen at
// each depth. The walk stops at the first value with no match, or when the
// previously matched option has no children list, so the result may be
// shorter than path.
func MatchOptions(tree Tree, path Path) []*Option {
	matched := make([]*Option, 0, len(path))
	candidates := []*Option(tree)
	for _, value := range path {
		if candidates == nil {
			break
		}
		next := find(candidates, value)
		if next == nil {
			break
		}
		matched = append(matched, next)
		candidates = next.Children
	}
	return matched
}

// VisibleColumns derives the columns to display for path. The root column
// is always present; each matched option adds a column only when its
// children list is non-empty, so a matched option whose children are still
// loading contributes nothing.
func VisibleColumns(tree Tree, path Path) []Tree {
	matched := MatchOptions(tree, path)
	columns := make([]Tree, 0, len(matched)+1)
	columns = append(columns, tree)
	for _, opt := range matched {
		if len(opt.Children) == 0 {
			continue
		}
		columns = append(columns, Tree(opt.Children))
	}
	return columns
}

// ActiveIndex returns the index within column of the option chosen at
// depth by path, or -1 when path does not reach that depth.
func ActiveIndex(column Tree, path Path, depth int) int {
	if depth < 0 || depth >= len(path) {
		return -1
	}
	for i, opt := range column {
		if opt != nil && opt.Value == path[depth] {
			return i
		}
	}
	return -1
}

// Valid reports whether every value in path matches the tree.
func Valid(tree Tree, path Path) bool {
	return len(MatchOptions(tree, path)) == len(path)
}

func find(options []*Option, value string) *Option {
	for _, opt := range options {
		if opt != nil && opt.Value == value {
			return opt
		}
	}
	return nil
}
