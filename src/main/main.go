package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/afero"

	"snapshot/src/clipboard"
	"snapshot/src/commit"
	"snapshot/src/config"
	"snapshot/src/coordinator"
	"snapshot/src/eventloop"
	"snapshot/src/hotkey"
	"snapshot/src/inventory"
	"snapshot/src/logutil"
	"snapshot/src/messages"
	"snapshot/src/notification"
	"snapshot/src/overlay"
	"snapshot/src/router"
	"snapshot/src/runtimeinit"
	"snapshot/src/screenshot"
	"snapshot/src/singleinstance"
	"snapshot/src/tray"
)

const (
	appID    = "io.snapshot.menubar"
	appTitle = "Snapshot"
)

func main() {
	// fyne and the platform hooks want the main thread
	runtime.LockOSThread()

	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	// Load .env early so SINGLEINSTANCE_PORT is applied before the delegation scan
	if _, err := config.Load(); err != nil {
		log.Printf("Config: %v", err)
	}
	if delegateToResident() {
		return
	}

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{SetupLogging: logutil.Setup})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logMonitorConfiguration(rt.Config.DisplayScale)

	if err := run(rt); err != nil {
		log.Printf("exiting: %v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// delegateToResident asks a running instance to start a capture. It reports
// true when this process should exit.
func delegateToResident() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	delegated, err := singleinstance.NewClient().RequestCapture(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resident found but capture request failed: %v\n", err)
		return true
	}
	if delegated {
		fmt.Println("Snapshot is already running; capture requested")
	}
	return delegated
}

func run(rt *runtimeinit.Runtime) error {
	cfg := rt.Config
	platform, err := inventory.NewPlatform()
	if err != nil {
		return fmt.Errorf("window inventory: %w", err)
	}
	defer platform.Close()

	r := router.NewRouter()
	defer r.Shutdown()

	loop, err := eventloop.New(r)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := singleinstance.NewServer(func() {
		if err := r.SendToLoop(messages.EndpointInstance, messages.CaptureRequested{Source: "second launch"}); err != nil {
			log.Printf("singleinstance: %v", err)
		}
	})
	if err := srv.Start(ctx); err != nil {
		start, end := singleinstance.PortRange()
		return fmt.Errorf("another instance may be running (ports %d-%d busy): %w", start, end, err)
	}
	defer srv.Close()

	a := app.NewWithID(appID)

	input := hotkey.New()
	coord := coordinator.New(coordinator.Options{
		Displays:  screenshot.Screens{Scale: cfg.DisplayScale},
		Capture:   screenshot.ScreenSource{DimAlpha: cfg.DimAlpha},
		Windows:   platform,
		Pointer:   platform,
		Views:     overlay.Factory{App: a, Router: r}.NewView,
		Queue:     loop,
		Router:    r,
		Toggle:    input,
		Committer: newPipeline(afero.NewOsFs(), cfg.OutputDir),
		Notifier:  notification.Notifier{Title: appTitle, Sender: a},
		Style:     rt.Style,
	})
	loop.SetHandler(coord)
	loop.SetClipboardClearer(clipboard.Clear)

	if err := loop.StartInput(input, cfg.Hotkey, cfg.CancelKey); err != nil {
		return err
	}
	defer input.Stop()

	tray.Install(a, tray.Config{Title: appTitle, Hotkey: cfg.Hotkey, Router: r})

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
		fyne.Do(a.Quit)
	}()

	log.Printf("%s ready: hotkey %s, saving to %s, instance port %d", appTitle, cfg.Hotkey, logutil.RedactHome(cfg.OutputDir), srv.Port())
	a.Run()
	cancel()
	return nil
}

func logMonitorConfiguration(scale float64) {
	displays, err := screenshot.Screens{Scale: scale}.Displays()
	if err != nil {
		log.Printf("MONITOR: %v", err)
		return
	}
	for _, line := range describeDisplays(displays) {
		log.Printf("MONITOR: %s", line)
	}
}

// describeDisplays renders one line per display for the startup log.
func describeDisplays(displays []screenshot.Display) []string {
	lines := make([]string, 0, len(displays)+1)
	lines = append(lines, fmt.Sprintf("Detected %d monitors", len(displays)))
	for _, d := range displays {
		lines = append(lines, fmt.Sprintf("display %d: px %v, frame x:%.0f y:%.0f w:%.0f h:%.0f, scale %.2f",
			d.ID, d.Bounds, d.Frame.X, d.Frame.Y, d.Frame.W, d.Frame.H, d.Scale))
	}
	return lines
}

// newPipeline copies to the clipboard and then saves under dir. An empty dir
// disables the file target.
func newPipeline(fs afero.Fs, dir string) commit.Pipeline {
	targets := []commit.Target{commit.ClipboardTarget{Clipboard: clipboard.System{}}}
	if dir != "" {
		targets = append(targets, commit.FileTarget{Fs: fs, Dir: dir, Now: time.Now})
	}
	return commit.Pipeline{Targets: targets}
}
