package ui

import "github.com/vanderheijden86/beads-tui/pkg/config"

// Focus identifies the pane that receives navigation keys.
type Focus int

const (
	FocusList Focus = iota
	FocusDetail
)

func (f Focus) String() string {
	if f == FocusDetail {
		return "detail"
	}
	return "list"
}

// Toggle returns the other pane.
func (f Focus) Toggle() Focus {
	if f == FocusList {
		return FocusDetail
	}
	return FocusList
}

const (
	// MinDualPaneWidth is the narrowest terminal that shows list and detail
	// side by side. Below it an open detail pane takes the whole body.
	MinDualPaneWidth = 60

	// SplitStep is the change applied by the < and > keys.
	SplitStep = 5

	footerHeight = 1
)

// Rect is a screen rectangle in cells. The zero Rect is an undrawn pane.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return !r.Empty() && x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Layout holds the rectangles of one frame. The same values drive drawing
// and mouse hit-testing on the next event.
type Layout struct {
	List   Rect
	Detail Rect
	Footer Rect
}

// ComputeLayout splits a width×height screen into panes and a footer line.
// splitPercent is the share of the body given to the list pane.
func ComputeLayout(width, height int, showDetail bool, splitPercent int) Layout {
	if width <= 0 || height <= 0 {
		return Layout{}
	}
	bodyH := height - footerHeight
	if bodyH < 0 {
		bodyH = 0
	}
	l := Layout{Footer: Rect{X: 0, Y: bodyH, Width: width, Height: footerHeight}}

	switch {
	case !showDetail:
		l.List = Rect{Width: width, Height: bodyH}
	case width < MinDualPaneWidth:
		l.Detail = Rect{Width: width, Height: bodyH}
	default:
		listW := width * clampSplit(splitPercent) / 100
		l.List = Rect{Width: listW, Height: bodyH}
		l.Detail = Rect{X: listW, Width: width - listW, Height: bodyH}
	}
	return l
}

// Resizable reports whether both panes are visible.
func (l Layout) Resizable() bool {
	return !l.List.Empty() && !l.Detail.Empty()
}

// OnSplitHandle reports whether (x, y) is on the border shared by the two
// panes: the list's right edge or the detail's left edge.
func (l Layout) OnSplitHandle(x, y int) bool {
	if !l.Resizable() {
		return false
	}
	top := min(l.List.Y, l.Detail.Y)
	bottom := max(l.List.Y+l.List.Height, l.Detail.Y+l.Detail.Height)
	if y < top || y >= bottom {
		return false
	}
	return x == l.List.X+l.List.Width-1 || x == l.Detail.X
}

// SplitFromMouseX converts a mouse column into a split percentage. The
// second result is false when the panes are not both visible.
func (l Layout) SplitFromMouseX(x int) (int, bool) {
	if !l.Resizable() {
		return 0, false
	}
	total := l.List.Width + l.Detail.Width
	left := l.List.X
	right := left + total - 1
	cx := min(max(x, left), right)

	// +1 keeps the split steady when dragging from the current edge.
	leftWidth := cx - left + 1
	return clampSplit(leftWidth * 100 / total), true
}

// AdjustSplit moves the split by delta points within the allowed range.
func AdjustSplit(current, delta int) int {
	return clampSplit(current + delta)
}

func clampSplit(p int) int {
	return min(max(p, config.MinSplitPercent), config.MaxSplitPercent)
}
