// Package session drives the overlay for a single display during a capture.
package session

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"

	"snapshot/src/annotation"
	"snapshot/src/geometry"
	"snapshot/src/inventory"
	"snapshot/src/screenshot"

	xdraw "golang.org/x/image/draw"
)

var ErrNothingSelected = errors.New("no selection to commit")

// Config carries everything a session needs for its lifetime.
type Config struct {
	Display    screenshot.Display
	Snapshot   screenshot.Snapshot
	Inventory  inventory.Snapshot
	View       View
	Controller Controller
	Queue      Queue
	Style      annotation.Style
	// Tools is the number of tool bar buttons.
	Tools int
}

// Session owns one display's overlay. All methods must be called from the
// event-loop goroutine.
type Session struct {
	display  screenshot.Display
	snap     screenshot.Snapshot
	inv      inventory.Snapshot
	view     View
	ctrl     Controller
	queue    Queue
	style    annotation.Style
	tools    int
	closed   bool
	hasStart bool
	start    geometry.Point

	// selection is the candidate capture rectangle in screen space.
	selection geometry.Rect
	// drawn is the selection as last applied to the view.
	drawn    geometry.Rect
	hasImage bool
	// toolFrame is the visible tool bar in screen space; empty when hidden.
	toolFrame geometry.Rect

	layer annotation.Layer
}

// New creates a session. Call Start to show it.
func New(cfg Config) *Session {
	tools := cfg.Tools
	if tools < 1 {
		tools = DefaultToolSet
	}
	style := cfg.Style
	if style.Width <= 0 {
		style = annotation.DefaultStyle
	}
	return &Session{
		display: cfg.Display,
		snap:    cfg.Snapshot,
		inv:     cfg.Inventory,
		view:    cfg.View,
		ctrl:    cfg.Controller,
		queue:   cfg.Queue,
		style:   style,
		tools:   tools,
	}
}

// Display returns the display this session covers.
func (s *Session) Display() screenshot.Display { return s.display }

// Selection returns the current capture rectangle in screen space.
func (s *Session) Selection() geometry.Rect { return s.selection }

// Annotations returns the committed markers in draw order.
func (s *Session) Annotations() []annotation.Path { return s.layer.Committed() }

// Closed reports whether Shutdown has run.
func (s *Session) Closed() bool { return s.closed }

// Start shows the dimmed background and highlights whatever is under the
// pointer.
func (s *Session) Start(pointer geometry.Point) {
	s.view.SetBackground(s.snap.Dimmed)
	s.detect(pointer, true)
}

// HandOff is called when another display reports the pointer left it.
// The receiver re-detects without broadcasting again.
func (s *Session) HandOff(at geometry.Point) {
	if s.closed || s.ctrl.State() != Highlight {
		return
	}
	s.detect(at, false)
}

func (s *Session) detect(p geometry.Point, broadcast bool) {
	frame := s.display.Frame
	s.selection = s.inv.Under(p, frame)
	if frame.Contains(p) {
		s.redraw(true)
		return
	}
	s.redraw(false)
	if broadcast {
		s.ctrl.PointerLeft(s, p)
	}
}

// redraw clips the selection to the display and schedules a view update.
// Nothing is scheduled when the view already shows the same state.
func (s *Session) redraw(withImage bool) {
	frame := s.display.Frame
	s.selection = geometry.Intersect(s.selection, frame)
	if withImage && s.hasImage && s.drawn.Equal(s.selection) {
		return
	}
	if !withImage && !s.hasImage {
		return
	}
	rect := s.selection
	s.queue.Post(func() {
		if s.closed {
			return
		}
		s.drawn = rect
		s.hasImage = withImage && !rect.Empty()
		if !s.hasImage {
			s.view.SetPreview(nil)
			return
		}
		s.view.SetPreview(s.preview(rect))
		s.view.SetHandles(s.ctrl.State() == Waiting)
	})
}

// toView converts a screen-space rectangle to the view's top-down local space.
func (s *Session) toView(r geometry.Rect) geometry.Rect {
	f := s.display.Frame
	return geometry.ToScreenSpace(r.Offset(-f.X, -f.Y), f.H)
}

// pixelRect maps a screen-space rectangle onto the raw snapshot's pixels.
func (s *Session) pixelRect(r geometry.Rect) image.Rectangle {
	raw := s.snap.Raw
	if raw == nil || s.display.Frame.Empty() {
		return image.Rectangle{}
	}
	v := s.toView(r)
	b := raw.Bounds()
	sx := float64(b.Dx()) / s.display.Frame.W
	sy := float64(b.Dy()) / s.display.Frame.H
	return image.Rect(
		b.Min.X+int(math.Round(v.X*sx)),
		b.Min.Y+int(math.Round(v.Y*sy)),
		b.Min.X+int(math.Round((v.X+v.W)*sx)),
		b.Min.Y+int(math.Round((v.Y+v.H)*sy)),
	).Intersect(b)
}

func (s *Session) preview(r geometry.Rect) *Preview {
	return &Preview{Image: s.snap.Raw, Source: s.pixelRect(r), Frame: s.toView(r)}
}

// toLayer converts a screen point to the annotation layer's local space.
func (s *Session) toLayer(p geometry.Point) geometry.Point {
	return p.Sub(s.drawn.Origin())
}

// OnDown handles a mouse-down that started on this display.
func (s *Session) OnDown(ev MouseEvent) {
	if s.closed {
		return
	}
	loc := ev.Location.Floor()
	// The global monitor sees presses on the tool bar too. Hiding the bar
	// here would swallow the button's own tap, so the press commits.
	if s.ctrl.State() == Edit && s.toolFrame.Contains(loc) {
		s.ctrl.Commit(s)
		return
	}
	if ev.ClickCount == 2 {
		if s.selection.Contains(loc) {
			s.ctrl.Commit(s)
		} else {
			s.ctrl.Cancel(nil)
		}
		return
	}
	switch s.ctrl.State() {
	case Highlight:
		s.start = loc
		s.hasStart = true
		s.request(MouseFirstDown)
	case Edit:
		s.hideTool()
		s.layer.Begin(s.toLayer(loc))
	}
}

// OnDrag handles pointer movement with the button held.
func (s *Session) OnDrag(ev MouseEvent) {
	if s.closed {
		return
	}
	if s.ctrl.State() == MouseFirstDown {
		s.request(Selecting)
	}
	switch s.ctrl.State() {
	case Selecting:
		if !s.hasStart {
			return
		}
		end := ev.Location.Ceil()
		sel := geometry.Union(geometry.R(s.start.X, s.start.Y, 1, 1), geometry.R(end.X, end.Y, 1, 1))
		s.selection = sel
		s.redraw(true)
	case Edit:
		if !s.layer.Dragging() {
			return
		}
		s.layer.Update(s.toLayer(ev.Location))
		s.queue.Post(s.renderMarkers)
	}
}

// OnUp handles a mouse-up on this display.
func (s *Session) OnUp(ev MouseEvent) {
	if s.closed {
		return
	}
	switch s.ctrl.State() {
	case MouseFirstDown, Selecting, Waiting:
		if !s.request(Edit) {
			return
		}
		s.hasStart = false
		s.queue.Post(s.showTool)
	case Edit:
		if !s.layer.Dragging() {
			return
		}
		s.layer.Commit(s.toLayer(ev.Location.Floor()))
		s.queue.Post(s.renderMarkers)
		s.queue.Post(s.showTool)
	}
}

// OnMove tracks the pointer while highlighting.
func (s *Session) OnMove(ev MouseEvent) {
	if s.closed || s.ctrl.State() != Highlight {
		return
	}
	s.detect(ev.Location, true)
}

// ToolClicked is called when the tool bar's copy button is pressed.
func (s *Session) ToolClicked() {
	if s.closed || s.ctrl.State() != Edit {
		return
	}
	s.ctrl.Commit(s)
}

func (s *Session) request(to State) bool {
	if err := s.ctrl.Request(to); err != nil {
		log.Printf("Session %d: %v", s.display.ID, err)
		return false
	}
	return true
}

// markers returns committed plus in-flight markers in the view's top-down
// space, relative to the layer origin.
func (s *Session) markers() []geometry.Rect {
	paths := s.layer.Committed()
	if cur := s.layer.Current(); cur != nil {
		paths = append(paths, *cur)
	}
	out := make([]geometry.Rect, 0, len(paths))
	for _, p := range paths {
		out = append(out, geometry.ToScreenSpace(p.Rect(), s.drawn.H))
	}
	return out
}

func (s *Session) renderMarkers() {
	if s.closed {
		return
	}
	s.view.SetMarkers(s.markers(), s.style)
}

func (s *Session) showTool() {
	if s.closed || s.ctrl.State() != Edit || s.layer.Dragging() {
		return
	}
	f := s.display.Frame
	local := s.drawn.Offset(-f.X, -f.Y)
	layout := LayoutTools(geometry.Intersect(local, f.Zeroed()), s.tools)
	s.toolFrame = layout.Frame.Offset(f.X, f.Y)
	layout.Frame = geometry.ToScreenSpace(layout.Frame, f.H)
	s.view.ShowTool(layout)
}

func (s *Session) hideTool() {
	s.toolFrame = geometry.Rect{}
	s.view.HideTool()
}

// ToolFrame returns the tool bar's screen-space frame, empty while hidden.
func (s *Session) ToolFrame() geometry.Rect { return s.toolFrame }

// Composite rasterizes the selected region plus committed markers at the
// display's scale. The result is ceil(w*scale) by ceil(h*scale) pixels.
func (s *Session) Composite() (*image.RGBA, error) {
	if !s.hasImage || s.drawn.Empty() || s.snap.Raw == nil {
		return nil, ErrNothingSelected
	}
	scale := s.display.Scale
	if scale <= 0 {
		scale = 1
	}
	size := s.drawn.Zeroed().Integral()
	w := int(math.Ceil(size.W * scale))
	h := int(math.Ceil(size.H * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrNothingSelected, size.W, size.H)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := s.pixelRect(s.drawn)
	if src.Empty() {
		return nil, ErrNothingSelected
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), s.snap.Raw, src, xdraw.Src, nil)
	annotation.Render(dst, s.layer.Committed(), s.style, scale, size.H)
	return dst, nil
}

// Shutdown closes the view. Redraws already queued become no-ops.
func (s *Session) Shutdown() {
	if s.closed {
		return
	}
	s.closed = true
	s.view.Close()
}
