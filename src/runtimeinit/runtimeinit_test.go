package runtimeinit

import (
	"errors"
	"image/color"
	"testing"

	"github.com/spf13/afero"

	"snapshot/src/annotation"
	"snapshot/src/config"
)

func TestBootstrapOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/style.yaml", []byte("color: \"#0000ff\"\nwidth: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENABLE_FILE_LOGGING", "true")

	var steps []string
	rt, err := Bootstrap(Options{
		LoadOptions:   config.LoadOptions{StyleFileOverride: "/style.yaml"},
		SetupLogging:  func(enabled bool) { steps = append(steps, "logging"); _ = enabled },
		Fs:            fs,
		InitClipboard: func() error { steps = append(steps, "clipboard"); return nil },
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 || steps[0] != "logging" || steps[1] != "clipboard" {
		t.Fatalf("steps = %v", steps)
	}
	if !rt.Config.EnableFileLogging {
		t.Error("file logging flag not loaded")
	}
	want := annotation.Style{Color: color.RGBA{B: 255, A: 255}, Width: 2}
	if rt.Style != want {
		t.Errorf("style = %+v, want %+v", rt.Style, want)
	}
}

func TestBootstrapBadStyleFallsBack(t *testing.T) {
	rt, err := Bootstrap(Options{
		LoadOptions:   config.LoadOptions{StyleFileOverride: "/missing.yaml"},
		Fs:            afero.NewMemMapFs(),
		InitClipboard: func() error { return nil },
	})
	if err != nil {
		t.Fatal(err)
	}
	if rt.Style != annotation.DefaultStyle {
		t.Errorf("style = %+v", rt.Style)
	}
}

func TestBootstrapClipboardFailure(t *testing.T) {
	boom := errors.New("no display")
	_, err := Bootstrap(Options{
		Fs:            afero.NewMemMapFs(),
		InitClipboard: func() error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
