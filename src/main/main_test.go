package main

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"snapshot/src/commit"
	"snapshot/src/screenshot"
)

func TestDescribeDisplays(t *testing.T) {
	displays := screenshot.DisplaysFromBounds([]image.Rectangle{
		image.Rect(0, 0, 1440, 900),
		image.Rect(1440, -180, 3360, 900),
	}, 2)

	lines := describeDisplays(displays)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Detected 2 monitors" {
		t.Errorf("header = %q", lines[0])
	}
	// the second display extends above the primary, so its screen-space
	// frame starts at y=0 and reaches 1080
	if !strings.Contains(lines[2], "frame x:1440 y:0 w:1920 h:1080") {
		t.Errorf("second display line = %q", lines[2])
	}
	if !strings.Contains(lines[1], "scale 2.00") {
		t.Errorf("first display line = %q", lines[1])
	}
}

func TestDescribeNoDisplays(t *testing.T) {
	if lines := describeDisplays(nil); len(lines) != 1 || lines[0] != "Detected 0 monitors" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestNewPipelineTargets(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want []string
	}{
		{"clipboard and file", "/shots", []string{"clipboard", "file"}},
		{"clipboard only", "", []string{"clipboard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(afero.NewMemMapFs(), tt.dir)
			if len(p.Targets) != len(tt.want) {
				t.Fatalf("targets = %d, want %d", len(p.Targets), len(tt.want))
			}
			for i, target := range p.Targets {
				if target.Name() != tt.want[i] {
					t.Errorf("target %d = %s, want %s", i, target.Name(), tt.want[i])
				}
			}
			if !p.Targets[0].Required() {
				t.Error("clipboard target must be required")
			}
			if len(p.Targets) > 1 {
				ft := p.Targets[1].(commit.FileTarget)
				if ft.Dir != tt.dir || ft.Now == nil {
					t.Errorf("file target = %+v", ft)
				}
				if d := time.Since(ft.Now()); d < 0 || d > time.Minute {
					t.Errorf("file target clock is off by %v", d)
				}
			}
		})
	}
}
