package session

import (
	"snapshot/src/geometry"
)

// Tool bar metrics in logical units.
const (
	ToolStride     = 35
	ToolMargin     = 10
	ToolButtonW    = 75
	ToolButtonH    = 26
	ToolGap        = 28
	DefaultToolSet = 1
)

// ToolLayout places the tool bar and its buttons. Frame is in the overlay's
// local space; Buttons are relative to Frame's origin.
type ToolLayout struct {
	Frame   geometry.Rect
	Buttons []geometry.Rect
}

// LayoutTools computes the tool bar for a selection given in bottom-up local
// space. The bar hangs below the selection, right-aligned to its max X, and
// is clamped to stay inside the overlay's left and bottom edges. The result
// is also bottom-up.
func LayoutTools(selection geometry.Rect, n int) ToolLayout {
	if n < 1 {
		n = DefaultToolSet
	}
	width := float64(ToolStride*n + ToolMargin*2 - (ToolStride - ToolButtonW))

	y := float64(int(selection.MinY())) - ToolGap
	x := float64(int(selection.MaxX()))
	if y < 0 {
		y = 0
	}
	if x < width {
		x = width
	}

	buttons := make([]geometry.Rect, n)
	for i := range buttons {
		buttons[i] = geometry.R(float64(ToolMargin+ToolStride*i), 0, ToolButtonW, ToolButtonH)
	}
	return ToolLayout{Frame: geometry.R(x-width, y, width, ToolButtonH), Buttons: buttons}
}
