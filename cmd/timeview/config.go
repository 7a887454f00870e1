package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the timeview daemon.
// Defaults and validation live here so the rest of the code can
// assume a well-formed config.
type Config struct {
	// Addr is the HTTP listen address for the state socket and the
	// frame endpoint.
	Addr string `yaml:"addr"`

	Timeline TimelineConfig `yaml:"timeline"`
	Render   RenderConfig   `yaml:"render"`

	// Theme is an optional path to a YAML theme overlay.
	Theme string `yaml:"theme,omitempty"`

	Logging LoggingConfig `yaml:"logging"`
}

type TimelineConfig struct {
	// Start and End bound the data range, in seconds.
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`

	// TickMS is the playback clock interval.
	TickMS int `yaml:"tick_ms"`
}

type RenderConfig struct {
	// Width and Height are the logical surface size for /frame.png.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPR    float64 `yaml:"dpr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Addr: "127.0.0.1:8132",
		Timeline: TimelineConfig{
			Start:  0,
			End:    600,
			TickMS: 33,
		},
		Render: RenderConfig{
			Width:  960,
			Height: 120,
			DPR:    1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of the
// defaults. Unknown fields are rejected to catch typos.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.Timeline.End <= c.Timeline.Start {
		return fmt.Errorf("timeline end (%v) must be after start (%v)", c.Timeline.End, c.Timeline.Start)
	}
	if c.Timeline.TickMS <= 0 {
		return fmt.Errorf("timeline tick_ms must be positive, got %d", c.Timeline.TickMS)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %vx%v", c.Render.Width, c.Render.Height)
	}
	if c.Render.DPR <= 0 {
		return fmt.Errorf("render dpr must be positive, got %v", c.Render.DPR)
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
