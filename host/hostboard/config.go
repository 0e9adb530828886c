package hostboard

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ticktoggle/core"
)

// Config is the JSON configuration of the host runner
type Config struct {
	Pin          string `json:"pin"`           // periph.io GPIO name, e.g. "GPIO17"
	Frequency    string `json:"frequency"`     // Toggle rate, e.g. "1Hz" or "500mHz"
	InitialLevel string `json:"initial_level"` // "low" or "high"
	Mode         string `json:"mode"`          // "interrupt" or "polling"
	Trace        bool   `json:"trace"`         // Print trace events while idling
}

// DefaultConfig mirrors core.DefaultConfig
func DefaultConfig() Config {
	return Config{
		Pin:          "GPIO17",
		Frequency:    "1Hz",
		InitialLevel: "low",
		Mode:         "interrupt",
	}
}

// LoadConfig reads a JSON file; fields it omits keep their defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Core converts the file representation into a validated core.Config
func (c Config) Core() (core.Config, error) {
	out := core.DefaultConfig()

	if err := out.Frequency.Set(c.Frequency); err != nil {
		return out, fmt.Errorf("frequency %q: %w", c.Frequency, core.ErrInvalidConfig)
	}

	switch strings.ToLower(c.InitialLevel) {
	case "", "low":
		out.InitialLevel = core.Low
	case "high":
		out.InitialLevel = core.High
	default:
		return out, fmt.Errorf("initial level %q: %w", c.InitialLevel, core.ErrInvalidConfig)
	}

	switch strings.ToLower(c.Mode) {
	case "", "interrupt":
		out.Mode = core.ModeInterrupt
	case "polling":
		out.Mode = core.ModePolling
	default:
		return out, fmt.Errorf("mode %q: %w", c.Mode, core.ErrInvalidConfig)
	}

	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}
