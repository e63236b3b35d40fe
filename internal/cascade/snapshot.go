package cascade

import "github.com/cockroachdb/errors"

// ErrPathNotFound is returned when a snapshot update names a path the
// tree does not contain.
var ErrPathNotFound = errors.New("path not found in tree")

// WithChildren returns a new snapshot in which the option at path has
// the given children. Options along path are copied; every other node is
// shared with tree, which is left untouched. A nil children slice is
// stored as an empty one so the option no longer reads as pending.
func WithChildren(tree Tree, path Path, children []*Option) (Tree, error) {
	if len(path) == 0 {
		return nil, errors.Wrap(ErrPathNotFound, "empty path")
	}
	if children == nil {
		children = []*Option{}
	}
	updated, err := replaceAt(tree, path, children)
	if err != nil {
		return nil, err
	}
	return Tree(updated), nil
}

func replaceAt(options []*Option, path Path, children []*Option) ([]*Option, error) {
	idx := -1
	for i, opt := range options {
		if opt != nil && opt.Value == path[0] {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Wrapf(ErrPathNotFound, "no option %q", path[0])
	}
	node := *options[idx]
	if len(path) == 1 {
		node.Children = children
	} else {
		sub, err := replaceAt(node.Children, path[1:], children)
		if err != nil {
			return nil, err
		}
		node.Children = sub
	}
	out := make([]*Option, len(options))
	copy(out, options)
	out[idx] = &node
	return out, nil
}
