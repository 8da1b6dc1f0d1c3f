// Package cursor tracks the selected row and scroll offset of a list.
package cursor

import "github.com/llehouerou/airwaves/internal/keymap"

// Cursor is a selection in a list whose length and viewport height are
// supplied on every call, since both change as stations load and the
// terminal resizes.
type Cursor struct {
	pos    int
	offset int // first visible row
	margin int // rows kept visible above and below pos
}

// New returns a cursor at the top that keeps margin rows of context.
func New(margin int) Cursor {
	return Cursor{margin: max(margin, 0)}
}

func (c Cursor) Pos() int    { return c.pos }
func (c Cursor) Offset() int { return c.offset }

// Set moves to row pos, clamped to [0, n).
func (c *Cursor) Set(pos, n, height int) {
	if n <= 0 {
		c.Reset()
		return
	}
	c.pos = min(max(pos, 0), n-1)
	c.scroll(n, height)
}

// Move shifts the selection by delta rows.
func (c *Cursor) Move(delta, n, height int) {
	c.Set(c.pos+delta, n, height)
}

// Reset returns to the first row.
func (c *Cursor) Reset() {
	c.pos, c.offset = 0, 0
}

// Window returns the visible rows as a half-open range.
func (c Cursor) Window(n, height int) (start, end int) {
	if n <= 0 || height <= 0 {
		return 0, 0
	}
	start = min(c.offset, max(n-height, 0))
	return start, min(start+height, n)
}

// scroll keeps pos inside the viewport with margin rows around it. The
// margin shrinks on viewports too small to honor it.
func (c *Cursor) scroll(n, height int) {
	if height <= 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos-margin < c.offset {
		c.offset = c.pos - margin
	}
	if c.pos+margin >= c.offset+height {
		c.offset = c.pos + margin - height + 1
	}
	c.offset = min(max(c.offset, 0), max(n-height, 0))
}

// HandleAction applies a navigation action and reports whether a was one.
// Paging keeps one row of the previous page in view.
func (c *Cursor) HandleAction(a keymap.Action, n, height int) bool {
	page := max(height-1, 1)
	switch a { //nolint:exhaustive // Only navigation actions move the cursor
	case keymap.ActionMoveDown:
		c.Move(1, n, height)
	case keymap.ActionMoveUp:
		c.Move(-1, n, height)
	case keymap.ActionPageDown:
		c.Move(page, n, height)
	case keymap.ActionPageUp:
		c.Move(-page, n, height)
	case keymap.ActionJumpStart:
		c.Reset()
	case keymap.ActionJumpEnd:
		c.Set(n-1, n, height)
	default:
		return false
	}
	return true
}
