package clipboard

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestWriteImage(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("clipboard not available: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	if err := (System{}).WriteImage(buf.Bytes()); err != nil {
		t.Logf("Failed to write to clipboard: %v", err)
	}
	if err := Clear(); err != nil {
		t.Logf("Failed to clear clipboard: %v", err)
	}
}
