//go:build !linux && !windows

package overlay

import "image"

func placeWindow(any, image.Rectangle) error { return errPlacementUnsupported }
