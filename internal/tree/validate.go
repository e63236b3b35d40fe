package tree

import (
	"sort"
	"strings"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrInvalidTree marks every problem reported by Validate.
var ErrInvalidTree = errors.New("invalid tree")

// ErrUnknownValue is returned by ResolvePath for values missing from the
// tree.
var ErrUnknownValue = errors.New("value not found")

// ErrNotLoaded marks ResolvePath failures below an option whose children
// have not been loaded yet.
var ErrNotLoaded = errors.New("children not loaded")

// Validate checks the structural rules the picker depends on: every
// option has a value, sibling values are unique, and options marked as
// leaves carry no children. All problems are reported together.
func Validate(t cascade.Tree) error {
	var result *multierror.Error
	validateLevel(t, nil, &result)
	if err := result.ErrorOrNil(); err != nil {
		return errors.Mark(err, ErrInvalidTree)
	}
	return nil
}

func validateLevel(options []*cascade.Option, parent cascade.Path, result **multierror.Error) {
	seen := make(map[string]struct{}, len(options))
	where := describe(parent)
	for i, opt := range options {
		if opt == nil {
			*result = multierror.Append(*result, errors.Newf("%s: entry %d is empty", where, i))
			continue
		}
		if opt.Value == "" {
			*result = multierror.Append(*result, errors.Newf("%s: entry %d has no value", where, i))
			continue
		}
		if _, dup := seen[opt.Value]; dup {
			*result = multierror.Append(*result, errors.Newf("%s: duplicate value %q", where, opt.Value))
		}
		seen[opt.Value] = struct{}{}
		if opt.IsLeaf != nil && *opt.IsLeaf && len(opt.Children) > 0 {
			*result = multierror.Append(*result, errors.Newf("%s: %q is marked as a leaf but has children", where, opt.Value))
		}
		child := append(parent.Clone(), opt.Value)
		validateLevel(opt.Children, child, result)
	}
}

func describe(p cascade.Path) string {
	if len(p) == 0 {
		return "root"
	}
	return p.String()
}

// ResolvePath checks that every value in p exists in t. The error for an
// unknown value lists the closest sibling values.
func ResolvePath(t cascade.Tree, p cascade.Path) error {
	matched := cascade.MatchOptions(t, p)
	if len(matched) == len(p) {
		return nil
	}
	depth := len(matched)
	siblings := []*cascade.Option(t)
	if depth > 0 {
		siblings = matched[depth-1].Children
	}
	if depth > 0 && siblings == nil {
		parent := matched[depth-1]
		if !parent.PendingChildren() {
			return errors.Wrapf(ErrUnknownValue, "%q: %q has no children", p[depth], p[:depth].String())
		}
		err := errors.Wrapf(ErrUnknownValue, "%q: %q has no children loaded", p[depth], p[:depth].String())
		return errors.Mark(err, ErrNotLoaded)
	}
	err := errors.Wrapf(ErrUnknownValue, "%q at depth %d", p[depth], depth)
	if hints := Suggest(siblings, p[depth], 3); len(hints) > 0 {
		err = errors.WithHintf(err, "did you mean %s?", strings.Join(hints, ", "))
	}
	return err
}

// Suggest returns up to limit sibling values that fuzzily match value.
func Suggest(options []*cascade.Option, value string, limit int) []string {
	candidates := make([]string, 0, len(options))
	for _, opt := range options {
		if opt != nil {
			candidates = append(candidates, opt.Value)
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(value, candidates)
	sort.Sort(ranks)
	if len(ranks) == 0 {
		// value may be the longer string, e.g. "NYCity" for "NYC"
		for _, c := range candidates {
			if fuzzy.MatchNormalizedFold(c, value) {
				ranks = append(ranks, fuzzy.Rank{Target: c})
			}
		}
	}
	out := make([]string, 0, limit)
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
