package eventloop

import (
	"context"
	"testing"
	"time"

	"snapshot/src/geometry"
	"snapshot/src/messages"
	"snapshot/src/router"
	"snapshot/src/session"
)

type recorder struct {
	calls  chan string
	events []session.MouseEvent
	loop   *Loop
}

func (r *recorder) StartCapture() error {
	// Deferred work posted during a handler must run after it, in order.
	r.loop.Post(func() { r.calls <- "deferred-1" })
	r.loop.Post(func() { r.calls <- "deferred-2" })
	r.calls <- "start"
	return nil
}
func (r *recorder) CancelKey() { r.calls <- "cancel" }
func (r *recorder) DispatchPlatform(ev session.MouseEvent) {
	r.events = append(r.events, ev)
	r.calls <- "mouse"
}
func (r *recorder) ToolClicked(id int) { r.calls <- "tool" }
func (r *recorder) EndCapture()        { r.calls <- "end" }

func expect(t *testing.T, ch <-chan string, want ...string) {
	t.Helper()
	for _, w := range want {
		select {
		case got := <-ch:
			if got != w {
				t.Fatalf("got %q, want %q", got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout waiting for %q", w)
		}
	}
}

func TestLoopDispatchesInOrder(t *testing.T) {
	r := router.NewRouter()
	r.SetMessageLogging(false)
	defer r.Shutdown()

	l, err := New(r)
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{calls: make(chan string, 16), loop: l}
	l.SetHandler(rec)
	cleared := false
	l.SetClipboardClearer(func() error { cleared = true; return nil })

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	r.SendToLoop(messages.EndpointTray, messages.CaptureRequested{Source: "tray"})
	expect(t, rec.calls, "start", "deferred-1", "deferred-2")

	r.SendToLoop(messages.EndpointInput, messages.Mouse{Event: session.MouseEvent{Kind: session.MouseMove, Location: geometry.Pt(3, 4)}})
	r.SendToLoop(messages.EndpointInput, messages.CancelKey{})
	r.SendToLoop(messages.EndpointOverlay, messages.ToolClicked{Display: 1})
	expect(t, rec.calls, "mouse", "cancel", "tool")

	r.SendToLoop(messages.EndpointTray, messages.ClearClipboard{})
	r.SendToLoop(messages.EndpointTray, messages.Quit{})
	expect(t, rec.calls, "end")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on Quit")
	}
	if !cleared {
		t.Fatal("clear clipboard action not run")
	}
	if len(rec.events) != 1 || rec.events[0].Location != geometry.Pt(3, 4) {
		t.Fatalf("mouse events = %+v", rec.events)
	}
}

func TestRunWithoutHandlerFails(t *testing.T) {
	r := router.NewRouter()
	defer r.Shutdown()
	l, err := New(r)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestPostFromAnotherGoroutine(t *testing.T) {
	r := router.NewRouter()
	r.SetMessageLogging(false)
	defer r.Shutdown()
	l, _ := New(r)
	rec := &recorder{calls: make(chan string, 4), loop: l}
	l.SetHandler(rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	got := make(chan struct{})
	go l.Post(func() { close(got) })
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("posted work never ran")
	}
	cancel()
	<-done
	expect(t, rec.calls, "end")
}
