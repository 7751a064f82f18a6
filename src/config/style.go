package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"snapshot/src/annotation"
)

var ErrInvalidStyle = errors.New("invalid style")

// styleFile is the on-disk shape of the annotation style:
//
//	color: "#ff0000"
//	width: 3
type styleFile struct {
	Color string  `yaml:"color"`
	Width float64 `yaml:"width"`
}

// LoadStyle reads the annotation style from path. An empty path yields the
// default style. Missing fields keep their defaults.
func LoadStyle(fs afero.Fs, path string) (annotation.Style, error) {
	style := annotation.DefaultStyle
	if path == "" {
		return style, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return style, fmt.Errorf("read style file: %w", err)
	}
	var sf styleFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return style, fmt.Errorf("%w: %s: %w", ErrInvalidStyle, path, err)
	}
	if sf.Color != "" {
		c, err := parseHexColor(sf.Color)
		if err != nil {
			return annotation.DefaultStyle, fmt.Errorf("%w: %s: %w", ErrInvalidStyle, path, err)
		}
		style.Color = c
	}
	if sf.Width < 0 || sf.Width > 50 {
		return annotation.DefaultStyle, fmt.Errorf("%w: %s: width %v out of range", ErrInvalidStyle, path, sf.Width)
	}
	if sf.Width > 0 {
		style.Width = sf.Width
	}
	return style, nil
}

// parseHexColor accepts #rgb, #rrggbb and #rrggbbaa (non-premultiplied).
func parseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	// hex values are straight alpha; color.RGBA is premultiplied
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}
