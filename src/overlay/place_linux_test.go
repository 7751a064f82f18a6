//go:build linux

package overlay

import (
	"errors"
	"image"
	"testing"

	"fyne.io/fyne/v2/driver"
	"github.com/BurntSushi/xgb/xproto"
)

func TestConfigureRequest(t *testing.T) {
	// a display left of and above the primary has negative origin
	mask, values := configureRequest(image.Rect(-1920, -200, 0, 880))
	wantMask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowStackMode)
	if mask != wantMask {
		t.Fatalf("mask = %#x, want %#x", mask, wantMask)
	}
	if len(values) != 5 {
		t.Fatalf("values = %v", values)
	}
	if int32(values[0]) != -1920 || int32(values[1]) != -200 {
		t.Errorf("origin = %d,%d", int32(values[0]), int32(values[1]))
	}
	if values[2] != 1920 || values[3] != 1080 {
		t.Errorf("size = %dx%d", values[2], values[3])
	}
	if values[4] != xproto.StackModeAbove {
		t.Errorf("stack mode = %d", values[4])
	}
}

func TestPlaceWindowNeedsHandle(t *testing.T) {
	err := placeWindow(driver.X11WindowContext{}, image.Rect(0, 0, 10, 10))
	if !errors.Is(err, errPlacementUnsupported) {
		t.Fatalf("err = %v", err)
	}
}
