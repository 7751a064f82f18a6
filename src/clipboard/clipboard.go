package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu sync.Mutex
	initErr error
	once    sync.Once
)

// Init prepares the system clipboard. It is safe to call more than once.
func Init() error {
	once.Do(func() { initErr = clipboard.Init() })
	return initErr
}

// WriteImage replaces the clipboard contents with PNG bytes.
func WriteImage(png []byte) error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// Clear empties the clipboard.
func Clear() error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte{})
	return nil
}

// System adapts the package functions to commit.ClipboardWriter.
type System struct{}

func (System) WriteImage(png []byte) error { return WriteImage(png) }
