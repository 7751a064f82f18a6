package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"snapshot/src/geometry"

	"github.com/kbinani/screenshot"
)

var (
	ErrNoDisplays    = errors.New("no active displays found")
	ErrCaptureFailed = errors.New("screen capture failed")
)

// DefaultDimAlpha is the opacity of the black wash applied to the overlay background.
const DefaultDimAlpha = 0.22

// Display describes one physical display for the lifetime of a capture.
type Display struct {
	ID int
	// Bounds is the platform (top-down) rectangle used for pixel capture.
	Bounds image.Rectangle
	// Frame is Bounds converted to bottom-up screen space.
	Frame geometry.Rect
	// Scale is the pixel density used when rasterizing a commit.
	Scale float64
}

// Snapshot holds the two immutable images taken at session start.
type Snapshot struct {
	Raw    *image.RGBA
	Dimmed *image.RGBA
}

// Enumerator lists the connected displays.
type Enumerator interface {
	Displays() ([]Display, error)
}

// Source captures the pixels of one display.
type Source interface {
	Capture(d Display) (Snapshot, error)
}

// Screens enumerates displays through the capture library.
type Screens struct {
	Scale float64
}

// Displays returns every active display with its frame in screen space.
func (s Screens) Displays() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplays
	}
	bounds := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return DisplaysFromBounds(bounds, s.Scale), nil
}

// DisplaysFromBounds builds display descriptors from platform bounds. The
// display whose origin is (0,0) is the reference for the vertical flip; the
// first display is used when none sits at the origin.
func DisplaysFromBounds(bounds []image.Rectangle, scale float64) []Display {
	if len(bounds) == 0 {
		return nil
	}
	if scale <= 0 {
		scale = 1
	}
	ref := ReferenceHeight(bounds)
	displays := make([]Display, 0, len(bounds))
	for i, b := range bounds {
		displays = append(displays, Display{
			ID:     i,
			Bounds: b,
			Frame:  geometry.ToScreenSpace(geometry.FromImage(b), ref),
			Scale:  scale,
		})
	}
	return displays
}

// ReferenceHeight returns the height of the primary display.
func ReferenceHeight(bounds []image.Rectangle) float64 {
	if len(bounds) == 0 {
		return 0
	}
	for _, b := range bounds {
		if b.Min.X == 0 && b.Min.Y == 0 {
			return float64(b.Dy())
		}
	}
	return float64(bounds[0].Dy())
}

// ScreenSource captures displays through the capture library.
type ScreenSource struct {
	DimAlpha float64
}

// Capture snapshots everything visible on d and derives the dimmed background.
func (s ScreenSource) Capture(d Display) (Snapshot, error) {
	if d.Bounds.Empty() {
		return Snapshot{}, fmt.Errorf("%w: display %d has empty bounds", ErrCaptureFailed, d.ID)
	}
	img, err := screenshot.CaptureRect(d.Bounds)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: display %d: %v", ErrCaptureFailed, d.ID, err)
	}
	if img == nil || img.Bounds().Empty() {
		return Snapshot{}, fmt.Errorf("%w: display %d returned no image", ErrCaptureFailed, d.ID)
	}
	log.Printf("screenshot: captured display %d (%dx%d px for %v)", d.ID, img.Bounds().Dx(), img.Bounds().Dy(), d.Bounds)
	return NewSnapshot(img, s.DimAlpha), nil
}

// NewSnapshot pairs raw with its dimmed variant. Raw is rebased to a zero origin.
func NewSnapshot(raw *image.RGBA, alpha float64) Snapshot {
	if raw.Bounds().Min != (image.Point{}) {
		rebased := image.NewRGBA(image.Rect(0, 0, raw.Bounds().Dx(), raw.Bounds().Dy()))
		draw.Draw(rebased, rebased.Bounds(), raw, raw.Bounds().Min, draw.Src)
		raw = rebased
	}
	return Snapshot{Raw: raw, Dimmed: Dim(raw, alpha)}
}

// Dim returns a copy of img with uniform black at alpha composited source-atop,
// so transparent pixels stay transparent.
func Dim(img *image.RGBA, alpha float64) *image.RGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	keep := 1 - alpha
	for i := 0; i+3 < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i])*keep + 0.5)
		out.Pix[i+1] = uint8(float64(out.Pix[i+1])*keep + 0.5)
		out.Pix[i+2] = uint8(float64(out.Pix[i+2])*keep + 0.5)
	}
	return out
}
