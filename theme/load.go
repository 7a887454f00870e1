package theme

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// overlay mirrors Theme with pointer fields so only the keys present
// in a document are applied; everything else keeps its current value.
type overlay struct {
	Background      *string `yaml:"background"`
	Grid            *string `yaml:"grid"`
	GridMajor       *string `yaml:"grid_major"`
	Label           *string `yaml:"label"`
	Accent          *string `yaml:"accent"`
	AccentGlow      *string `yaml:"accent_glow"`
	Selection       *string `yaml:"selection"`
	SelectionBorder *string `yaml:"selection_border"`
	Hover           *string `yaml:"hover"`
	TooltipBg       *string `yaml:"tooltip_bg"`
	TooltipText     *string `yaml:"tooltip_text"`

	PlayheadWidth *float64 `yaml:"playhead_width"`
	HandleSize    *float64 `yaml:"handle_size"`
	GlowBlur      *float64 `yaml:"glow_blur"`
	TooltipPad    *float64 `yaml:"tooltip_pad"`
	TooltipRadius *float64 `yaml:"tooltip_radius"`
	FontSize      *float64 `yaml:"font_size"`
	LabelInset    *float64 `yaml:"label_inset"`

	GridMaxLabels *int `yaml:"grid_max_labels"`
}

// Overlay applies the fields present in the YAML document over t.
// Unknown keys are rejected so typos surface instead of silently
// keeping defaults.
func (t *Theme) Overlay(data []byte) error {
	var o overlay
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty document: nothing to apply.
			return nil
		}
		return fmt.Errorf("theme: parse overlay: %w", err)
	}

	colors := []struct {
		dst *uint32
		src *string
	}{
		{&t.Background, o.Background},
		{&t.Grid, o.Grid},
		{&t.GridMajor, o.GridMajor},
		{&t.Label, o.Label},
		{&t.Accent, o.Accent},
		{&t.AccentGlow, o.AccentGlow},
		{&t.Selection, o.Selection},
		{&t.SelectionBorder, o.SelectionBorder},
		{&t.Hover, o.Hover},
		{&t.TooltipBg, o.TooltipBg},
		{&t.TooltipText, o.TooltipText},
	}
	for _, c := range colors {
		if c.src == nil {
			continue
		}
		v, err := ParseColor(*c.src)
		if err != nil {
			return err
		}
		*c.dst = v
	}

	metrics := []struct {
		dst *float64
		src *float64
	}{
		{&t.PlayheadWidth, o.PlayheadWidth},
		{&t.HandleSize, o.HandleSize},
		{&t.GlowBlur, o.GlowBlur},
		{&t.TooltipPad, o.TooltipPad},
		{&t.TooltipRadius, o.TooltipRadius},
		{&t.FontSize, o.FontSize},
		{&t.LabelInset, o.LabelInset},
	}
	for _, m := range metrics {
		if m.src != nil {
			*m.dst = *m.src
		}
	}

	if o.GridMaxLabels != nil {
		t.GridMaxLabels = *o.GridMaxLabels
	}
	return nil
}

// Load reads a YAML overlay file applied over the defaults.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	t := Default()
	if err := t.Overlay(data); err != nil {
		return nil, err
	}
	return t, nil
}
