package session

import (
	"errors"
	"testing"

	"snapshot/src/geometry"
)

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
		ok   bool
	}{
		{"drag select", []State{Highlight, MouseFirstDown, Selecting, Edit, Done}, true},
		{"click select", []State{Highlight, MouseFirstDown, Edit}, true},
		{"waiting", []State{Highlight, MouseFirstDown, Selecting, Waiting, Edit}, true},
		{"edit without drag", []State{Highlight, Edit}, false},
		{"skip highlight", []State{MouseFirstDown}, false},
		{"back to highlight", []State{Highlight, MouseFirstDown, Highlight}, false},
		{"cancel from highlight", []State{Highlight, Done}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			var err error
			for _, s := range tt.path {
				if err = m.Request(s); err != nil {
					break
				}
			}
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestMachineDoneNeedsActiveCapture(t *testing.T) {
	m := NewMachine()
	if err := m.Request(Done); err == nil {
		t.Fatal("Idle -> Done should be rejected")
	}
	m.Request(Highlight)
	m.Request(Done)
	m.Reset()
	if m.State() != Idle {
		t.Fatalf("Reset left state %s", m.State())
	}
}

func TestLayoutTools(t *testing.T) {
	tests := []struct {
		name string
		sel  geometry.Rect
		want geometry.Rect
	}{
		{"below right edge", geometry.R(100, 100, 300, 200), geometry.R(305, 72, 95, 26)},
		{"clamped to bottom left", geometry.R(0, 10, 20, 20), geometry.R(0, 0, 95, 26)},
		{"fractional selection", geometry.R(100.7, 50.5, 299.6, 10), geometry.R(305, 22, 95, 26)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LayoutTools(tt.sel, 1)
			if !got.Frame.Equal(tt.want) {
				t.Errorf("Frame = %+v, want %+v", got.Frame, tt.want)
			}
			if len(got.Buttons) != 1 || !got.Buttons[0].Equal(geometry.R(10, 0, 75, 26)) {
				t.Errorf("Buttons = %+v", got.Buttons)
			}
		})
	}
}
