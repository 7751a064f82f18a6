//go:build !linux && !windows

package inventory

import "snapshot/src/geometry"

// Unsupported reports ErrUnsupported for every query.
type Unsupported struct{}

// NewPlatform returns an error on platforms without a window inventory.
func NewPlatform() (*Unsupported, error) { return nil, ErrUnsupported }

// Close is a no-op.
func (u *Unsupported) Close() {}

func (u *Unsupported) ListOnScreenWindows() ([]RawWindow, error) { return nil, ErrUnsupported }

func (u *Unsupported) Location() (geometry.Point, error) { return geometry.Point{}, ErrUnsupported }
