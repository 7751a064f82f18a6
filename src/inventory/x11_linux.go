//go:build linux

package inventory

import (
	"fmt"
	"log"

	"snapshot/src/geometry"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// X11 lists windows through the EWMH stacking client list.
type X11 struct {
	xu *xgbutil.XUtil
}

// NewPlatform connects to the X server named by $DISPLAY.
func NewPlatform() (*X11, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	return &X11{xu: xu}, nil
}

// Close disconnects from the X server.
func (x *X11) Close() {
	if x != nil && x.xu != nil {
		x.xu.Conn().Close()
	}
}

// ListOnScreenWindows returns mapped, non-hidden clients front to back.
func (x *X11) ListOnScreenWindows() ([]RawWindow, error) {
	if x == nil || x.xu == nil {
		return nil, fmt.Errorf("x11 inventory connection is nil")
	}
	// The stacking list is bottom to top.
	stack, err := ewmh.ClientListStackingGet(x.xu)
	if err != nil {
		return nil, fmt.Errorf("read _NET_CLIENT_LIST_STACKING: %w", err)
	}

	windows := make([]RawWindow, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		id := stack[i]
		if x.hidden(id) {
			continue
		}
		rect, ok := x.windowRect(id)
		if !ok {
			continue
		}
		windows = append(windows, RawWindow{Bounds: rect, Layer: x.layer(id)})
	}
	log.Printf("inventory: %d of %d X11 clients on screen", len(windows), len(stack))
	return windows, nil
}

// Location queries the pointer position relative to the root window.
func (x *X11) Location() (geometry.Point, error) {
	if x == nil || x.xu == nil {
		return geometry.Point{}, fmt.Errorf("x11 inventory connection is nil")
	}
	reply, err := xproto.QueryPointer(x.xu.Conn(), x.xu.RootWin()).Reply()
	if err != nil {
		return geometry.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return geometry.Pt(float64(reply.RootX), float64(reply.RootY)), nil
}

func (x *X11) hidden(id xproto.Window) bool {
	states, err := ewmh.WmStateGet(x.xu, id)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

func (x *X11) layer(id xproto.Window) int {
	types, err := ewmh.WmWindowTypeGet(x.xu, id)
	if err != nil || len(types) == 0 {
		return LayerNormal
	}
	switch types[0] {
	case "_NET_WM_WINDOW_TYPE_DESKTOP":
		return LayerDesktop
	case "_NET_WM_WINDOW_TYPE_DOCK", "_NET_WM_WINDOW_TYPE_TOOLBAR":
		return LayerDock
	case "_NET_WM_WINDOW_TYPE_NOTIFICATION", "_NET_WM_WINDOW_TYPE_SPLASH",
		"_NET_WM_WINDOW_TYPE_MENU", "_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
		"_NET_WM_WINDOW_TYPE_POPUP_MENU", "_NET_WM_WINDOW_TYPE_TOOLTIP":
		return LayerOverlay
	default:
		return LayerNormal
	}
}

func (x *X11) windowRect(id xproto.Window) (geometry.Rect, bool) {
	geom, err := xproto.GetGeometry(x.xu.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return geometry.Rect{}, false
	}
	translate, err := xproto.TranslateCoordinates(x.xu.Conn(), id, x.xu.RootWin(), 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}, false
	}
	return geometry.R(float64(translate.DstX), float64(translate.DstY), float64(geom.Width), float64(geom.Height)), true
}
