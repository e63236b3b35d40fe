package state

import "github.com/atomicstack/tmux-popup-cascade/internal/cascade"

// Column holds the view state of one visible column: the options shown,
// which one is active, and how far the column is scrolled.
type Column struct {
	Depth          int
	Items          cascade.Tree
	Active         int
	ViewportOffset int
	// follow is set when the active row changed and should be scrolled
	// into view on the next layout.
	follow bool
}

// NewColumn constructs a Column for the options at depth.
func NewColumn(depth int, items cascade.Tree, active int) *Column {
	c := &Column{Depth: depth, Active: -1}
	c.Update(items, active)
	c.follow = true
	return c
}

// Update refreshes the items and active index while keeping the scroll
// position where possible.
func (c *Column) Update(items cascade.Tree, active int) {
	if active != c.Active {
		c.follow = true
	}
	if !sameItems(c.Items, items) {
		c.ViewportOffset = 0
		c.follow = true
	}
	c.Items = items
	c.Active = active
	if active < 0 || active >= len(items) {
		c.Active = -1
	}
	if c.ViewportOffset > len(items)-1 {
		c.ViewportOffset = 0
	}
	if c.ViewportOffset < 0 {
		c.ViewportOffset = 0
	}
}

// Follow requests that the active row be scrolled into view on the next
// layout, as happens when the menu is reopened.
func (c *Column) Follow() {
	c.follow = true
}

// IndexAt maps a row inside the column body to an item index, or -1.
func (c *Column) IndexAt(row, maxVisible int) int {
	if row < 0 {
		return -1
	}
	if maxVisible > 0 && row >= maxVisible {
		return -1
	}
	idx := c.ViewportOffset + row
	if idx >= len(c.Items) {
		return -1
	}
	return idx
}

// VisibleRange returns the half-open item range shown for maxVisible rows.
func (c *Column) VisibleRange(maxVisible int) (int, int) {
	n := len(c.Items)
	if maxVisible <= 0 || n <= maxVisible {
		return 0, n
	}
	start := c.ViewportOffset
	if start+maxVisible > n {
		start = n - maxVisible
	}
	return start, start + maxVisible
}

func sameItems(a, b cascade.Tree) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
