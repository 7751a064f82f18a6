// Package annotation holds the rectangle markers drawn over a selection.
package annotation

import (
	"image"
	"image/color"

	"snapshot/src/geometry"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// MinArea is the smallest marker footprint kept on commit; anything smaller
// is an accidental click.
const MinArea = 1e-2

// DefaultStyle is a 3px red stroke.
var DefaultStyle = Style{Color: color.RGBA{R: 255, A: 255}, Width: 3}

// Style controls how markers are stroked.
type Style struct {
	Color color.RGBA
	Width float64
}

// Path is one marker, with both points in the layer's local (bottom-up) space.
type Path struct {
	Start geometry.Point
	End   geometry.Point
}

// Rect returns the marker's normalized rectangle.
func (p Path) Rect() geometry.Rect {
	return geometry.Normalize(geometry.R(p.Start.X, p.Start.Y, p.End.X-p.Start.X, p.End.Y-p.Start.Y))
}

// Degenerate reports whether the marker is too small to keep.
func (p Path) Degenerate() bool {
	return p.Rect().Area() < MinArea
}

// Layer is the ordered marker sequence plus at most one in-flight marker.
type Layer struct {
	committed []Path
	current   *Path
	start     *geometry.Point
}

// Begin records the start of a new marker.
func (l *Layer) Begin(start geometry.Point) {
	s := start
	l.start = &s
	l.current = nil
}

// Dragging reports whether a marker has been started and not yet committed.
func (l *Layer) Dragging() bool { return l.start != nil }

// Update moves the in-flight marker's end point. It is a no-op before Begin.
func (l *Layer) Update(end geometry.Point) {
	if l.start == nil {
		return
	}
	l.current = &Path{Start: *l.start, End: end}
}

// Commit finalizes the in-flight marker and appends it unless it is
// degenerate. It reports whether a marker was appended.
func (l *Layer) Commit(end geometry.Point) bool {
	if l.start == nil {
		return false
	}
	p := Path{Start: *l.start, End: end}
	l.start = nil
	l.current = nil
	if p.Degenerate() {
		return false
	}
	l.committed = append(l.committed, p)
	return true
}

// Current returns a copy of the in-flight marker, or nil.
func (l *Layer) Current() *Path {
	if l.current == nil {
		return nil
	}
	c := *l.current
	return &c
}

// Committed returns a copy of the committed markers in draw order.
func (l *Layer) Committed() []Path {
	out := make([]Path, len(l.committed))
	copy(out, l.committed)
	return out
}

// Len returns the number of committed markers.
func (l *Layer) Len() int { return len(l.committed) }

// Render strokes paths onto dst. layerHeight is the layer's logical height,
// used to flip the bottom-up local space into dst's top-down pixels, and
// scale maps logical units to dst pixels.
func Render(dst *image.RGBA, paths []Path, style Style, scale, layerHeight float64) {
	if len(paths) == 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	if style.Width <= 0 {
		style = DefaultStyle
	}
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	stroker := rasterx.NewStroker(b.Dx(), b.Dy(), scanner)
	width := fixed.Int26_6(style.Width * scale * 64)
	stroker.SetStroke(width, 4*64, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
	stroker.SetColor(style.Color)

	for _, p := range paths {
		if p.Degenerate() {
			continue
		}
		r := p.Rect()
		minX := r.X * scale
		maxX := (r.X + r.W) * scale
		minY := (layerHeight - r.Y - r.H) * scale
		maxY := (layerHeight - r.Y) * scale
		stroker.Clear()
		rasterx.AddRect(minX, minY, maxX, maxY, 0, stroker)
		stroker.Draw()
	}
}
