// Package inventory snapshots the on-screen windows once per capture so the
// overlay can find the window under the pointer without re-querying the
// window system on every mouse move.
package inventory

import (
	"errors"
	"fmt"

	"snapshot/src/geometry"
)

// Stacking layers. Zero is an ordinary application window; anything else is
// system chrome (desktop, docks, panels, notifications).
const (
	LayerDesktop = -1
	LayerNormal  = 0
	LayerDock    = 20
	LayerOverlay = 25
)

var ErrUnsupported = errors.New("window inventory is not supported on this platform")

// RawWindow is a window as reported by the platform, in top-down coordinates.
type RawWindow struct {
	Bounds geometry.Rect
	Layer  int
}

// Lister enumerates on-screen windows front to back.
type Lister interface {
	ListOnScreenWindows() ([]RawWindow, error)
}

// Pointer reports the global pointer location in top-down coordinates.
type Pointer interface {
	Location() (geometry.Point, error)
}

// Record is an immutable window entry in screen space.
type Record struct {
	Bounds geometry.Rect
	Layer  int
}

// Snapshot is the ordered, read-only inventory shared by every display session.
type Snapshot struct {
	records []Record
}

// Take lists the windows once and converts them to screen space.
func Take(l Lister, referenceHeight float64) (Snapshot, error) {
	raw, err := l.ListOnScreenWindows()
	if err != nil {
		return Snapshot{}, fmt.Errorf("list windows: %w", err)
	}
	records := make([]Record, 0, len(raw))
	for _, w := range raw {
		records = append(records, Record{
			Bounds: geometry.ToScreenSpace(geometry.Normalize(w.Bounds), referenceHeight),
			Layer:  w.Layer,
		})
	}
	return Snapshot{records: records}, nil
}

// NewSnapshot wraps records that are already in screen space.
func NewSnapshot(records []Record) Snapshot {
	cp := make([]Record, len(records))
	copy(cp, records)
	return Snapshot{records: cp}
}

// Len returns the number of records.
func (s Snapshot) Len() int { return len(s.records) }

// Records returns a copy of the records in enumeration order.
func (s Snapshot) Records() []Record {
	cp := make([]Record, len(s.records))
	copy(cp, s.records)
	return cp
}

// Under returns the window rectangle to highlight for pointer p. The first
// normal-layer window containing p wins; otherwise the smallest chrome window
// containing p that is smaller than fallback; otherwise fallback itself.
func (s Snapshot) Under(p geometry.Point, fallback geometry.Rect) geometry.Rect {
	best := fallback
	minArea := fallback.Area()
	for _, r := range s.records {
		if !r.Bounds.Contains(p) {
			continue
		}
		if r.Layer == LayerNormal {
			return r.Bounds
		}
		if a := r.Bounds.Area(); a < minArea {
			minArea = a
			best = r.Bounds
		}
	}
	return best
}
