package state

// ScrollBy moves the viewport by delta rows without touching the active
// item. It reports whether the offset changed.
func (c *Column) ScrollBy(delta, maxVisible int) bool {
	old := c.ViewportOffset
	c.ViewportOffset += delta
	c.clampOffset(maxVisible)
	return c.ViewportOffset != old
}

func (c *Column) clampOffset(maxVisible int) {
	maxOffset := 0
	if maxVisible > 0 {
		maxOffset = len(c.Items) - maxVisible
	}
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.ViewportOffset > maxOffset {
		c.ViewportOffset = maxOffset
	}
	if c.ViewportOffset < 0 {
		c.ViewportOffset = 0
	}
}

// EnsureVisible clamps the viewport and, when the active item changed
// since the last layout, scrolls just enough to show it.
func (c *Column) EnsureVisible(maxVisible int) {
	if len(c.Items) == 0 {
		c.ViewportOffset = 0
		c.follow = false
		return
	}
	if maxVisible <= 0 {
		c.ViewportOffset = 0
		c.follow = false
		return
	}
	c.clampOffset(maxVisible)
	if !c.follow || c.Active < 0 {
		c.follow = false
		return
	}
	c.follow = false
	if c.Active < c.ViewportOffset {
		c.ViewportOffset = c.Active
	}
	upper := c.ViewportOffset + maxVisible - 1
	if c.Active > upper {
		c.ViewportOffset = c.Active - maxVisible + 1
	}
	c.clampOffset(maxVisible)
}
