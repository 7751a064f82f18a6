package geometry

import (
	"image"
	"math"
)

// Point is a location in either screen space or a view's local space.
type Point struct {
	X float64
	Y float64
}

// Rect is an origin plus extents. Extents may be negative until Normalize is applied.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Floor snaps a pointer location down to whole pixels.
func (p Point) Floor() Point { return Point{X: math.Floor(p.X), Y: math.Floor(p.Y)} }

// Ceil snaps a pointer location up to whole pixels.
func (p Point) Ceil() Point { return Point{X: math.Ceil(p.X), Y: math.Ceil(p.Y)} }

// Sub returns p translated by -o.
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// MinX returns the left edge regardless of the sign of W.
func (r Rect) MinX() float64 { return math.Min(r.X, r.X+r.W) }

// MinY returns the lower edge.
func (r Rect) MinY() float64 { return math.Min(r.Y, r.Y+r.H) }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return math.Max(r.X, r.X+r.W) }

// MaxY returns the upper edge.
func (r Rect) MaxY() float64 { return math.Max(r.Y, r.Y+r.H) }

// Origin returns the rectangle's origin point.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Area is W*H; negative extents produce a negative area.
func (r Rect) Area() float64 { return r.W * r.H }

// Empty reports whether the rectangle encloses no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Equal compares all four fields exactly.
func (r Rect) Equal(o Rect) bool {
	return r.X == o.X && r.Y == o.Y && r.W == o.W && r.H == o.H
}

// Contains treats the max edges as exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// Offset translates the rectangle.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Zeroed moves the origin to (0,0).
func (r Rect) Zeroed() Rect { return Rect{W: r.W, H: r.H} }

// Integral expands the rectangle outward to whole pixel boundaries.
func (r Rect) Integral() Rect {
	n := Normalize(r)
	x0, y0 := math.Floor(n.X), math.Floor(n.Y)
	x1, y1 := math.Ceil(n.X+n.W), math.Ceil(n.Y+n.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Normalize shifts the origin and flips sign so W and H are non-negative.
func Normalize(r Rect) Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// ToScreenSpace flips the vertical axis against referenceHeight, converting a
// top-down platform rectangle to bottom-up screen space and back.
func ToScreenSpace(r Rect, referenceHeight float64) Rect {
	return Rect{X: r.X, Y: referenceHeight - r.H - r.Y, W: r.W, H: r.H}
}

// PointToScreenSpace is the point form of ToScreenSpace.
func PointToScreenSpace(p Point, referenceHeight float64) Point {
	return Point{X: p.X, Y: referenceHeight - p.Y}
}

// Intersect returns the overlap of a and b. Disjoint inputs produce zero
// extents and zero area; check Empty before using the result.
func Intersect(a, b Rect) Rect {
	a, b = Normalize(a), Normalize(b)
	x0 := math.Max(a.X, b.X)
	y0 := math.Max(a.Y, b.Y)
	x1 := math.Min(a.X+a.W, b.X+b.W)
	y1 := math.Min(a.Y+a.H, b.Y+b.H)
	return Rect{X: x0, Y: y0, W: math.Max(0, x1-x0), H: math.Max(0, y1-y0)}
}

// Union returns the smallest rectangle containing both. An empty operand is ignored.
func Union(a, b Rect) Rect {
	a, b = Normalize(a), Normalize(b)
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	x0 := math.Min(a.X, b.X)
	y0 := math.Min(a.Y, b.Y)
	x1 := math.Max(a.X+a.W, b.X+b.W)
	y1 := math.Max(a.Y+a.H, b.Y+b.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// FromImage converts a pixel rectangle.
func FromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// Image converts to a pixel rectangle, rounding outward.
func (r Rect) Image() image.Rectangle {
	n := r.Integral()
	return image.Rect(int(n.X), int(n.Y), int(n.X+n.W), int(n.Y+n.H))
}
