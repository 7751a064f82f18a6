package tray

import (
	"testing"
	"time"

	"snapshot/src/messages"
	"snapshot/src/router"
)

func TestMenuItemsForwardToLoop(t *testing.T) {
	r := router.NewRouter()
	r.SetMessageLogging(false)
	defer r.Shutdown()
	inbox, err := r.Register(messages.EndpointLoop, 4)
	if err != nil {
		t.Fatal(err)
	}
	quitCalled := false
	menu := Menu(Config{Title: "Snapshot", Hotkey: "Ctrl+Cmd+A", Router: r, OnQuit: func() { quitCalled = true }})

	if len(menu.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(menu.Items))
	}
	if menu.Items[0].Label != "Capture (Ctrl+Cmd+A)" {
		t.Errorf("capture label = %q", menu.Items[0].Label)
	}

	want := []string{messages.TypeCaptureRequested, messages.TypeClearClipboard, "", messages.TypeQuit}
	for i, item := range menu.Items {
		if item.IsSeparator {
			continue
		}
		item.Action()
		if _, err := router.WaitForMessage(inbox, want[i], time.Second); err != nil {
			t.Fatalf("item %q: %v", item.Label, err)
		}
	}
	if !quitCalled {
		t.Fatal("OnQuit not called")
	}
	if !menu.Items[3].IsQuit {
		t.Fatal("quit item should be marked IsQuit")
	}
}

func TestCaptureLabelWithoutHotkey(t *testing.T) {
	if got := captureLabel(""); got != "Capture" {
		t.Fatalf("captureLabel = %q", got)
	}
}
