package overlay

import "errors"

var errPlacementUnsupported = errors.New("window placement not supported for this window context")
