package screenshot

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"snapshot/src/geometry"
)

func TestDisplaysFromBoundsFlipsAgainstPrimary(t *testing.T) {
	bounds := []image.Rectangle{
		image.Rect(1440, 0, 3360, 1080),
		image.Rect(0, 0, 1440, 900),
	}
	displays := DisplaysFromBounds(bounds, 2)
	if len(displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(displays))
	}

	if got := displays[1].Frame; !got.Equal(geometry.R(0, 0, 1440, 900)) {
		t.Errorf("primary frame = %+v", got)
	}
	// 900 - 1080 - 0 = -180: the taller secondary extends below the primary's bottom edge.
	if got := displays[0].Frame; !got.Equal(geometry.R(1440, -180, 1920, 1080)) {
		t.Errorf("secondary frame = %+v", got)
	}
	for _, d := range displays {
		if d.Scale != 2 {
			t.Errorf("display %d scale = %v, want 2", d.ID, d.Scale)
		}
	}
}

func TestDisplaysFromBoundsDefaultsScale(t *testing.T) {
	displays := DisplaysFromBounds([]image.Rectangle{image.Rect(0, 0, 10, 10)}, 0)
	if displays[0].Scale != 1 {
		t.Fatalf("expected default scale 1, got %v", displays[0].Scale)
	}
	if DisplaysFromBounds(nil, 1) != nil {
		t.Fatal("expected nil for no bounds")
	}
}

func TestDimKeepsAlphaAndDarkens(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	img.SetRGBA(1, 0, color.RGBA{})

	dimmed := Dim(img, DefaultDimAlpha)

	got := dimmed.RGBAAt(0, 0)
	want := color.RGBA{R: 156, G: 78, B: 39, A: 255}
	if got != want {
		t.Errorf("dimmed pixel = %#v, want %#v", got, want)
	}
	if got := dimmed.RGBAAt(1, 0); got != (color.RGBA{}) {
		t.Errorf("transparent pixel changed to %#v", got)
	}
	if img.RGBAAt(0, 0).R != 200 {
		t.Error("Dim modified its input")
	}
}

func TestNewSnapshotRebasesOrigin(t *testing.T) {
	raw := image.NewRGBA(image.Rect(100, 50, 104, 52))
	raw.SetRGBA(100, 50, color.RGBA{R: 9, A: 255})

	snap := NewSnapshot(raw, 0.5)
	if snap.Raw.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("raw bounds = %v", snap.Raw.Bounds())
	}
	if snap.Raw.RGBAAt(0, 0).R != 9 {
		t.Fatalf("rebased pixel = %#v", snap.Raw.RGBAAt(0, 0))
	}
	if snap.Dimmed.Bounds() != snap.Raw.Bounds() {
		t.Fatalf("dimmed bounds %v differ from raw %v", snap.Dimmed.Bounds(), snap.Raw.Bounds())
	}
}

func TestCaptureRejectsEmptyDisplay(t *testing.T) {
	_, err := ScreenSource{DimAlpha: DefaultDimAlpha}.Capture(Display{})
	if !errors.Is(err, ErrCaptureFailed) {
		t.Fatalf("expected ErrCaptureFailed, got %v", err)
	}
}

func TestScreensDisplays(t *testing.T) {
	// Requires a display; only checks that enumeration does not panic.
	displays, err := Screens{Scale: 1}.Displays()
	if err != nil {
		t.Logf("Failed to enumerate displays (expected in headless environment): %v", err)
		return
	}
	if len(displays) == 0 {
		t.Error("expected at least one display when no error is returned")
	}
}
