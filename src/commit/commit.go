// Package commit encodes a finished capture and delivers it.
package commit

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// FileNameLayout is the timestamp layout used in saved file names.
const FileNameLayout = "20060102-150405"

// Result describes a delivered capture.
type Result struct {
	PNG  []byte
	Path string
}

// Target receives the encoded PNG. Required targets abort the commit on
// failure; optional ones are logged and skipped.
type Target interface {
	Name() string
	Required() bool
	Deliver(png []byte, res *Result) error
}

// ClipboardWriter is the clipboard as seen by ClipboardTarget.
type ClipboardWriter interface {
	WriteImage(png []byte) error
}

// ClipboardTarget places the PNG on the system clipboard.
type ClipboardTarget struct {
	Clipboard ClipboardWriter
}

func (ClipboardTarget) Name() string   { return "clipboard" }
func (ClipboardTarget) Required() bool { return true }

func (t ClipboardTarget) Deliver(data []byte, _ *Result) error {
	if t.Clipboard == nil {
		return fmt.Errorf("clipboard not configured")
	}
	return t.Clipboard.WriteImage(data)
}

// FileTarget saves the PNG under Dir as snapshot-<timestamp>.png.
type FileTarget struct {
	Fs  afero.Fs
	Dir string
	Now func() time.Time
}

func (FileTarget) Name() string   { return "file" }
func (FileTarget) Required() bool { return false }

func (t FileTarget) Deliver(data []byte, res *Result) error {
	fs := t.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	if err := fs.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", t.Dir, err)
	}
	path := filepath.Join(t.Dir, FileName(now()))
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	res.Path = path
	return nil
}

// FileName returns the output file name for a capture taken at ts.
func FileName(ts time.Time) string {
	return "snapshot-" + ts.Format(FileNameLayout) + ".png"
}

// Pipeline encodes once and hands the bytes to each target in order.
type Pipeline struct {
	Targets []Target
}

// Encode returns img as a PNG using the best compression level.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Commit encodes img and delivers it. The first required target failure is
// returned; later targets are not attempted after it.
func (p Pipeline) Commit(img image.Image) (Result, error) {
	data, err := Encode(img)
	if err != nil {
		return Result{}, err
	}
	res := Result{PNG: data}
	for _, t := range p.Targets {
		if err := t.Deliver(data, &res); err != nil {
			if t.Required() {
				return res, fmt.Errorf("%s: %w", t.Name(), err)
			}
			log.Printf("Commit: %s target failed: %v", t.Name(), err)
			continue
		}
		log.Printf("Commit: delivered %d bytes to %s", len(data), t.Name())
	}
	return res, nil
}
