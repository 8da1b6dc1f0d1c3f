package ui

// Base holds the size and focus every component of the station browser
// tracks. Components embed it.
type Base struct {
	width, height int
	focused       bool
}

func (b *Base) SetFocused(focused bool) { b.focused = focused }
func (b Base) IsFocused() bool          { return b.focused }

// SetSize records the space the parent allotted.
func (b *Base) SetSize(width, height int) {
	b.width, b.height = width, height
}

func (b Base) Width() int  { return b.width }
func (b Base) Height() int { return b.height }

// Unsized reports whether no space has been allotted yet; components
// render nothing until the first resize.
func (b Base) Unsized() bool {
	return b.width <= 0 || b.height <= 0
}

// InnerWidth is the width inside a panel border.
func (b Base) InnerWidth() int {
	return max(b.width-2, 0)
}

// VisibleRows is the number of station rows a panel of this height shows, never
// less than one.
func (b Base) VisibleRows() int {
	return max(b.height-PanelOverhead, 1)
}
