//go:build linux

package overlay

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2/driver"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// placeWindow asks the window manager to move the window to b. Without an
// EWMH window manager the window is configured directly.
func placeWindow(ctx any, b image.Rectangle) error {
	x11, ok := ctx.(driver.X11WindowContext)
	if !ok || x11.WindowHandle == 0 {
		return errPlacementUnsupported
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer xu.Conn().Close()

	win := xproto.Window(x11.WindowHandle)
	if err := ewmh.MoveresizeWindow(xu, win, b.Min.X, b.Min.Y, b.Dx(), b.Dy()); err == nil {
		return nil
	}
	mask, values := configureRequest(b)
	if err := xproto.ConfigureWindowChecked(xu.Conn(), win, mask, values).Check(); err != nil {
		return fmt.Errorf("configure window: %w", err)
	}
	return nil
}

// configureRequest builds a ConfigureWindow request that moves and sizes the
// window to b and raises it. Values follow the mask's bit order.
func configureRequest(b image.Rectangle) (uint16, []uint32) {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowStackMode)
	values := []uint32{
		uint32(int32(b.Min.X)),
		uint32(int32(b.Min.Y)),
		uint32(b.Dx()),
		uint32(b.Dy()),
		xproto.StackModeAbove,
	}
	return mask, values
}
