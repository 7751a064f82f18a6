//go:build windows

package inventory

import (
	"fmt"
	"log"
	"unsafe"

	"snapshot/src/geometry"

	"golang.org/x/sys/windows"
)

const (
	gwHwndNext      = 2
	gwlExStyle      = -20
	wsExTopmost     = 0x00000008
	wsExToolWindow  = 0x00000080
	maxWindowsWalks = 4096
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procGetTopWindow    = user32.NewProc("GetTopWindow")
	procGetWindow       = user32.NewProc("GetWindow")
	procIsWindowVisible = user32.NewProc("IsWindowVisible")
	procIsIconic        = user32.NewProc("IsIconic")
	procGetWindowRect   = user32.NewProc("GetWindowRect")
	procGetWindowLongW  = user32.NewProc("GetWindowLongW")
	procGetCursorPos    = user32.NewProc("GetCursorPos")
)

type cursorPoint struct {
	X int32
	Y int32
}

// Win32 walks the top-level window z-order.
type Win32 struct{}

// NewPlatform returns the Win32 lister.
func NewPlatform() (*Win32, error) {
	if err := procGetTopWindow.Find(); err != nil {
		return nil, fmt.Errorf("user32 unavailable: %w", err)
	}
	return &Win32{}, nil
}

// Close is a no-op for Win32.
func (w *Win32) Close() {}

// ListOnScreenWindows returns visible, non-minimized top-level windows front to back.
func (w *Win32) ListOnScreenWindows() ([]RawWindow, error) {
	var out []RawWindow
	hwnd, _, _ := procGetTopWindow.Call(0)
	for i := 0; hwnd != 0 && i < maxWindowsWalks; i++ {
		if visible(hwnd) {
			var r windows.Rect
			ok, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
			if ok != 0 && r.Right > r.Left && r.Bottom > r.Top {
				out = append(out, RawWindow{
					Bounds: geometry.R(float64(r.Left), float64(r.Top), float64(r.Right-r.Left), float64(r.Bottom-r.Top)),
					Layer:  exStyleLayer(hwnd),
				})
			}
		}
		hwnd, _, _ = procGetWindow.Call(hwnd, gwHwndNext)
	}
	log.Printf("inventory: %d Win32 windows on screen", len(out))
	return out, nil
}

// Location returns the cursor position in virtual-screen coordinates.
func (w *Win32) Location() (geometry.Point, error) {
	var p cursorPoint
	ok, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if ok == 0 {
		return geometry.Point{}, fmt.Errorf("GetCursorPos: %v", err)
	}
	return geometry.Pt(float64(p.X), float64(p.Y)), nil
}

func visible(hwnd uintptr) bool {
	v, _, _ := procIsWindowVisible.Call(hwnd)
	if v == 0 {
		return false
	}
	iconic, _, _ := procIsIconic.Call(hwnd)
	return iconic == 0
}

func exStyleLayer(hwnd uintptr) int {
	idx := gwlExStyle
	style, _, _ := procGetWindowLongW.Call(hwnd, uintptr(idx))
	switch {
	case style&wsExToolWindow != 0:
		return LayerOverlay
	case style&wsExTopmost != 0:
		return LayerDock
	default:
		return LayerNormal
	}
}
