package cascade

import (
	"strings"

	"github.com/google/uuid"
)

// Option is a node in the option tree.
type Option struct {
	Value    string    `json:"value" yaml:"value" toml:"value"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Children []*Option `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	Disabled bool      `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
	// IsLeaf is tri-state; nil means the tree did not say.
	IsLeaf *bool `json:"isLeaf,omitempty" yaml:"isLeaf,omitempty" toml:"isLeaf,omitempty"`
}

// Tree is the root column of an option tree. Trees are snapshots: callers
// build a new Tree instead of mutating nodes that a Machine can see.
type Tree []*Option

// Path lists the option value chosen at each depth.
type Path []string

// Bool returns a pointer to b, for populating Option.IsLeaf.
func Bool(b bool) *bool {
	return &b
}

// HasChildren reports whether the option has at least one child.
func (o *Option) HasChildren() bool {
	return o != nil && len(o.Children) > 0
}

// PendingChildren reports whether the option's children must be fetched
// lazily: isLeaf is explicitly false and no children list is present.
func (o *Option) PendingChildren() bool {
	return o != nil && o.IsLeaf != nil && !*o.IsLeaf && o.Children == nil
}

// DisplayLabel falls back to the value when no label is set.
func (o *Option) DisplayLabel() string {
	if o == nil {
		return ""
	}
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	dup := make(Path, len(p))
	copy(dup, p)
	return dup
}

// Equal reports whether both paths hold the same values.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// PathOf extracts the values from a matched option chain.
func PathOf(options []*Option) Path {
	if len(options) == 0 {
		return Path{}
	}
	p := make(Path, len(options))
	for i, opt := range options {
		p[i] = opt.Value
	}
	return p
}

// Visibility is the menu state a Commit asks the collaborator to apply.
type Visibility int

const (
	VisibilityOpen Visibility = iota
	VisibilityClosed
)

func (v Visibility) String() string {
	if v == VisibilityClosed {
		return "closed"
	}
	return "open"
}

// Commit is emitted when a path becomes the committed value.
type Commit struct {
	Options    []*Option
	Visibility Visibility
}

// Path returns the committed values.
func (c Commit) Path() Path {
	return PathOf(c.Options)
}

// LoadRequest asks the collaborator to fetch children for the deepest
// option in Options and to supply a new tree snapshot afterwards.
type LoadRequest struct {
	ID      string
	Options []*Option
}

func newLoadRequest(options []*Option) LoadRequest {
	return LoadRequest{ID: uuid.NewString(), Options: options}
}

// Path returns the values leading to the target option.
func (r LoadRequest) Path() Path {
	return PathOf(r.Options)
}

// Target returns the option whose children are requested.
func (r LoadRequest) Target() *Option {
	if len(r.Options) == 0 {
		return nil
	}
	return r.Options[len(r.Options)-1]
}
