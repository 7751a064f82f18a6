package overlay

import (
	"errors"
	"image"
	"testing"
)

func TestPlaceWindowRejectsForeignContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  any
	}{
		{"nil", nil},
		{"unknown", struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := placeWindow(tt.ctx, image.Rect(0, 0, 800, 600))
			if !errors.Is(err, errPlacementUnsupported) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}
