//go:build windows

package overlay

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2/driver"
	"golang.org/x/sys/windows"
)

const (
	hwndTopmost      = ^uintptr(0) // HWND_TOPMOST (-1)
	swpShowWindow    = 0x0040
	swpNoOwnerZOrder = 0x0200
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSetWindowPos = user32.NewProc("SetWindowPos")
)

// placeWindow moves the window to b (physical pixels) and keeps it topmost.
func placeWindow(ctx any, b image.Rectangle) error {
	w, ok := ctx.(driver.WindowsWindowContext)
	if !ok || w.HWND == 0 {
		return errPlacementUnsupported
	}
	ret, _, err := procSetWindowPos.Call(
		w.HWND, hwndTopmost,
		uintptr(b.Min.X), uintptr(b.Min.Y), uintptr(b.Dx()), uintptr(b.Dy()),
		swpShowWindow|swpNoOwnerZOrder,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}
