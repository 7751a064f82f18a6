// Package tray installs the menu-bar menu.
package tray

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"snapshot/src/messages"
	"snapshot/src/router"
)

// Config controls the tray menu.
type Config struct {
	Title  string
	Hotkey string
	Router *router.Router
	// OnQuit runs after the loop has been told to stop.
	OnQuit func()
}

// Menu builds the tray menu. Each item forwards to the event loop.
func Menu(cfg Config) *fyne.Menu {
	send := func(m messages.Message) {
		if cfg.Router == nil {
			return
		}
		if err := cfg.Router.SendToLoop(messages.EndpointTray, m); err != nil {
			log.Printf("Tray: %v", err)
		}
	}

	capture := fyne.NewMenuItem(captureLabel(cfg.Hotkey), func() {
		send(messages.CaptureRequested{Source: "tray"})
	})
	clearItem := fyne.NewMenuItem("Clear Clipboard", func() {
		send(messages.ClearClipboard{})
	})
	quit := fyne.NewMenuItem("Quit", func() {
		send(messages.Quit{})
		if cfg.OnQuit != nil {
			cfg.OnQuit()
		}
	})
	quit.IsQuit = true

	return fyne.NewMenu(cfg.Title, capture, clearItem, fyne.NewMenuItemSeparator(), quit)
}

func captureLabel(hotkey string) string {
	if hotkey == "" {
		return "Capture"
	}
	return fmt.Sprintf("Capture (%s)", hotkey)
}

// Install sets the icon and menu on app. It reports false when the driver
// has no system tray.
func Install(app fyne.App, cfg Config) bool {
	desk, ok := app.(desktop.App)
	if !ok {
		log.Printf("Tray: system tray not supported by this driver")
		return false
	}
	desk.SetSystemTrayIcon(Icon)
	desk.SetSystemTrayMenu(Menu(cfg))
	log.Printf("Tray: installed")
	return true
}
