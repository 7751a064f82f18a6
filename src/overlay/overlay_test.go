package overlay

import (
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"snapshot/src/annotation"
	"snapshot/src/geometry"
	"snapshot/src/messages"
	"snapshot/src/router"
	"snapshot/src/screenshot"
	"snapshot/src/session"
)

func newTestView(t *testing.T) (*view, *router.Router) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)
	r := router.NewRouter()
	r.SetMessageLogging(false)
	t.Cleanup(r.Shutdown)

	d := screenshot.DisplaysFromBounds([]image.Rectangle{image.Rect(0, 0, 800, 600)}, 1)[0]
	sv, err := Factory{App: app, Router: r}.NewView(d)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return sv.(*view), r
}

func TestPreviewAndMarkers(t *testing.T) {
	v, _ := newTestView(t)
	raw := image.NewRGBA(image.Rect(0, 0, 800, 600))

	v.SetBackground(raw)
	v.SetPreview(&session.Preview{Image: raw, Source: image.Rect(100, 200, 400, 400), Frame: geometry.R(100, 200, 300, 200)})
	if !v.preview.Visible() {
		t.Fatal("preview should be visible")
	}
	if got := v.preview.Position(); got.X != 100 || got.Y != 200 {
		t.Errorf("preview position = %v", got)
	}
	if b := v.preview.Image.Bounds(); b != image.Rect(100, 200, 400, 400) {
		t.Errorf("preview crop = %v", b)
	}

	v.SetMarkers([]geometry.Rect{geometry.R(10, 10, 20, 20), geometry.R(0, 0, 5, 5)}, annotation.DefaultStyle)
	if n := len(v.markers.Objects); n != 2 {
		t.Fatalf("expected 2 markers, got %d", n)
	}

	v.SetHandles(true)
	visible := 0
	for _, h := range v.handles {
		if h.Visible() {
			visible++
		}
	}
	if visible != 8 {
		t.Fatalf("expected 8 handles, got %d", visible)
	}

	v.SetPreview(nil)
	if v.preview.Visible() {
		t.Fatal("preview should be hidden")
	}
	v.Close()
}

func TestCopyButtonNotifiesLoop(t *testing.T) {
	v, r := newTestView(t)
	inbox, err := r.Register(messages.EndpointLoop, 1)
	if err != nil {
		t.Fatal(err)
	}

	v.ShowTool(session.LayoutTools(geometry.R(100, 100, 300, 200), 1))
	if !v.tool.Visible() {
		t.Fatal("tool bar should be visible")
	}
	test.Tap(v.copyButton)

	env, err := router.WaitForMessage(inbox, messages.TypeToolClicked, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if env.Message.(messages.ToolClicked).Display != v.display.ID {
		t.Errorf("unexpected display in %+v", env)
	}

	v.HideTool()
	if v.tool.Visible() {
		t.Fatal("tool bar should be hidden")
	}
}
