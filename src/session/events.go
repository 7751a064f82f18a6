package session

import (
	"image"

	"snapshot/src/annotation"
	"snapshot/src/geometry"
)

// EventKind identifies a raw pointer event.
type EventKind int

const (
	MouseDown EventKind = iota
	MouseUp
	MouseDrag
	MouseMove
)

func (k EventKind) String() string {
	switch k {
	case MouseDown:
		return "down"
	case MouseUp:
		return "up"
	case MouseDrag:
		return "drag"
	case MouseMove:
		return "move"
	default:
		return "unknown"
	}
}

// MouseEvent is a pointer event with its location in screen space.
type MouseEvent struct {
	Kind       EventKind
	Location   geometry.Point
	ClickCount int
}

// MouseEventSink receives pointer events for one display.
type MouseEventSink interface {
	OnDown(ev MouseEvent)
	OnUp(ev MouseEvent)
	OnDrag(ev MouseEvent)
	OnMove(ev MouseEvent)
}

// Deliver routes ev to the matching sink method.
func Deliver(sink MouseEventSink, ev MouseEvent) {
	switch ev.Kind {
	case MouseDown:
		sink.OnDown(ev)
	case MouseUp:
		sink.OnUp(ev)
	case MouseDrag:
		sink.OnDrag(ev)
	case MouseMove:
		sink.OnMove(ev)
	}
}

// Queue defers work to the next pass of the event loop, in FIFO order.
type Queue interface {
	Post(fn func())
}

// Controller is the coordinator as seen by a session: the session reads the
// shared state and asks for transitions instead of mutating it.
type Controller interface {
	StateReader
	Request(to State) error
	// Commit runs the commit pipeline for s and ends the capture.
	Commit(s *Session)
	// Cancel ends the whole capture. err is nil for a user cancel.
	Cancel(err error)
	// PointerLeft tells the other sessions that the pointer is not on s.
	PointerLeft(s *Session, at geometry.Point)
}

// Preview is the undimmed part of the snapshot shown over the background.
type Preview struct {
	Image image.Image
	// Source is the crop of Image in pixels.
	Source image.Rectangle
	// Frame is where the crop is placed, in the view's top-down local space.
	Frame geometry.Rect
}

// View is the platform overlay window for one display. Coordinates are
// logical units in the window's top-down local space.
type View interface {
	SetBackground(img image.Image)
	// SetPreview shows p, or clears the preview when p is nil.
	SetPreview(p *Preview)
	// SetMarkers draws rectangles relative to the preview's origin.
	SetMarkers(markers []geometry.Rect, style annotation.Style)
	SetHandles(visible bool)
	ShowTool(layout ToolLayout)
	HideTool()
	Close()
}
