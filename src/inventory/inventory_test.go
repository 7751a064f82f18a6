package inventory

import (
	"errors"
	"testing"

	"snapshot/src/geometry"
)

type fakeLister struct {
	windows []RawWindow
	err     error
}

func (f fakeLister) ListOnScreenWindows() ([]RawWindow, error) { return f.windows, f.err }

func TestUnderPrefersNormalLayerRegardlessOfOrder(t *testing.T) {
	screen := geometry.R(0, 0, 1440, 900)
	normal := Record{Bounds: geometry.R(100, 100, 800, 600), Layer: LayerNormal}
	chrome1 := Record{Bounds: geometry.R(150, 150, 50, 50), Layer: 1}
	chrome2 := Record{Bounds: geometry.R(0, 0, 1440, 900), Layer: 2}
	p := geometry.Pt(160, 160)

	orders := [][]Record{
		{normal, chrome1, chrome2},
		{chrome1, normal, chrome2},
		{chrome2, chrome1, normal},
	}
	for i, order := range orders {
		got := NewSnapshot(order).Under(p, screen)
		if !got.Equal(normal.Bounds) {
			t.Errorf("order %d: Under = %+v, want normal window %+v", i, got, normal.Bounds)
		}
	}
}

func TestUnderPicksSmallestChromeWindow(t *testing.T) {
	screen := geometry.R(0, 0, 1440, 900)
	menuBar := Record{Bounds: geometry.R(0, 876, 1440, 24), Layer: LayerOverlay}
	desktop := Record{Bounds: geometry.R(0, 0, 1440, 900), Layer: LayerDesktop}
	snap := NewSnapshot([]Record{desktop, menuBar})

	if got := snap.Under(geometry.Pt(10, 880), screen); !got.Equal(menuBar.Bounds) {
		t.Errorf("Under menu bar = %+v", got)
	}
	if got := snap.Under(geometry.Pt(10, 10), screen); !got.Equal(screen) {
		t.Errorf("desktop-only hit should fall back to the screen, got %+v", got)
	}
	if got := snap.Under(geometry.Pt(-50, -50), screen); !got.Equal(screen) {
		t.Errorf("miss should fall back to the screen, got %+v", got)
	}
}

func TestTakeConvertsToScreenSpace(t *testing.T) {
	l := fakeLister{windows: []RawWindow{
		{Bounds: geometry.R(10, 0, 100, 50), Layer: LayerNormal},
		{Bounds: geometry.R(110, 50, -100, -50), Layer: LayerDock},
	}}
	snap, err := Take(l, 900)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	recs := snap.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !recs[0].Bounds.Equal(geometry.R(10, 850, 100, 50)) {
		t.Errorf("first record = %+v", recs[0].Bounds)
	}
	if !recs[1].Bounds.Equal(geometry.R(10, 850, 100, 50)) || recs[1].Layer != LayerDock {
		t.Errorf("second record = %+v", recs[1])
	}
}

func TestTakePropagatesErrors(t *testing.T) {
	_, err := Take(fakeLister{err: ErrUnsupported}, 900)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestRecordsIsACopy(t *testing.T) {
	snap := NewSnapshot([]Record{{Bounds: geometry.R(0, 0, 1, 1)}})
	recs := snap.Records()
	recs[0].Layer = 99
	if snap.Records()[0].Layer != 0 {
		t.Fatal("Records exposed internal storage")
	}
}
