package router

import (
	"testing"
	"time"

	"snapshot/src/geometry"
	"snapshot/src/messages"
)

func TestBroadcastSkipsSender(t *testing.T) {
	r := NewRouter()
	defer r.Shutdown()
	r.SetMessageLogging(false)

	a, _ := r.Register(messages.DisplayEndpoint(1), 4)
	b, _ := r.Register(messages.DisplayEndpoint(2), 4)

	r.Broadcast(messages.MessageEnvelope{
		From:    messages.DisplayEndpoint(1),
		To:      messages.Broadcast,
		Message: messages.PointerLeft{At: geometry.Pt(5, 5)},
	})

	env, err := WaitForMessage(b, messages.TypePointerLeft, time.Second)
	if err != nil {
		t.Fatalf("receiver: %v", err)
	}
	if env.To != messages.DisplayEndpoint(2) {
		t.Errorf("envelope addressed to %s", env.To)
	}
	select {
	case env := <-a:
		t.Fatalf("sender received its own broadcast: %+v", env)
	default:
	}
}

func TestBroadcastToIgnoresUnknownEndpoints(t *testing.T) {
	r := NewRouter()
	defer r.Shutdown()
	r.SetMessageLogging(false)

	a, _ := r.Register("a", 1)
	r.Register("loop", 1)

	r.BroadcastTo(messages.MessageEnvelope{From: "x", Message: messages.Quit{}}, []string{"a", "missing"})
	if len(a) != 1 {
		t.Fatal("listed endpoint should receive the message")
	}
	if stats := r.ChannelStats(); stats["loop"] != 0 {
		t.Fatalf("unlisted endpoint received a message: %v", stats)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	r := NewRouter()
	defer r.Shutdown()
	if _, err := r.Register("loop", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Register("loop", 1); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestSendToUnknownEndpoint(t *testing.T) {
	r := NewRouter()
	defer r.Shutdown()
	if err := r.SendToLoop("tray", messages.Quit{}); err == nil {
		t.Fatal("expected error when loop is not registered")
	}
}

func TestUnregisterClosesChannel(t *testing.T) {
	r := NewRouter()
	ch, _ := r.Register("display-1", 1)
	r.Unregister("display-1")
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed")
	}
	if len(r.ActiveEndpoints()) != 0 {
		t.Fatal("endpoint still listed")
	}
	r.Shutdown()
	if r.IsHealthy() {
		t.Fatal("router should report unhealthy after shutdown")
	}
}
