// Package theme defines the visual style model for the timeline:
// colors, geometry constants, and the grid label budget, each
// overridable field by field from a YAML document on top of the
// defaults.
package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Theme holds the visual defaults for rendering.
// Colors are 0xRRGGBBAA values.
type Theme struct {
	Background      uint32
	Grid            uint32
	GridMajor       uint32
	Label           uint32
	Accent          uint32
	AccentGlow      uint32
	Selection       uint32
	SelectionBorder uint32
	Hover           uint32
	TooltipBg       uint32
	TooltipText     uint32

	// Metrics, in logical pixels.
	PlayheadWidth float64
	HandleSize    float64
	GlowBlur      float64
	TooltipPad    float64
	TooltipRadius float64
	FontSize      float64
	LabelInset    float64

	// GridMaxLabels bounds how many gridlines the background layer
	// asks for across the visible window.
	GridMaxLabels int
}

// Default returns the dark default theme: near-black track, cool grey
// grid, warm accent playhead.
func Default() *Theme {
	return &Theme{
		Background:      0x1E1E28FF,
		Grid:            0x32323EFF,
		GridMajor:       0x4A4A5AFF,
		Label:           0x9A9AB0FF,
		Accent:          0xFF6B5AFF,
		AccentGlow:      0xFF6B5A55,
		Selection:       0x5A8CFF2E,
		SelectionBorder: 0x5A8CFFC8,
		Hover:           0xC8C8DC78,
		TooltipBg:       0x10101AE0,
		TooltipText:     0xE6E6F0FF,

		PlayheadWidth: 2,
		HandleSize:    6,
		GlowBlur:      6,
		TooltipPad:    6,
		TooltipRadius: 4,
		FontSize:      12,
		LabelInset:    4,

		GridMaxLabels: 60,
	}
}

// RGBA converts a 0xRRGGBBAA value to an alpha-premultiplied
// color.RGBA.
func RGBA(v uint32) color.RGBA {
	r := v >> 24 & 0xFF
	g := v >> 16 & 0xFF
	b := v >> 8 & 0xFF
	a := v & 0xFF
	return color.RGBA{
		R: uint8(r * a / 255),
		G: uint8(g * a / 255),
		B: uint8(b * a / 255),
		A: uint8(a),
	}
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" (leading '#' optional)
// into a 0xRRGGBBAA value. A missing alpha means opaque.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("theme: bad color %q: %w", s, err)
		}
		return uint32(v)<<8 | 0xFF, nil
	case 8:
		v, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("theme: bad color %q: %w", s, err)
		}
		return uint32(v), nil
	default:
		return 0, fmt.Errorf("theme: bad color %q: want RRGGBB or RRGGBBAA", s)
	}
}
