// Package config provides the session configuration schema and loader for
// the tuner command.
package config

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/window"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/cwbudde/algo-tuner/tuning"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the tuner session configuration.
type Config struct {
	LogLevel LogLevel `yaml:"log_level"`

	// Device selects the input: empty for the default device, a device
	// index, or a case-insensitive name substring.
	Device string `yaml:"device"`

	// Target is a string key from the reference table (E2, A, D, G, B, E4).
	Target string `yaml:"target"`

	ToleranceHz      float64 `yaml:"tolerance_hz"`
	SampleRate       float64 `yaml:"sample_rate"`
	FrameSize        int     `yaml:"frame_size"`
	AmplitudeDivisor float64 `yaml:"amplitude_divisor"`
	NoiseFloor       float64 `yaml:"noise_floor"`
	Window           string  `yaml:"window"`

	// MetricsAddr, when set, serves Prometheus metrics at /metrics.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the reference configuration targeting the A string.
func Default() *Config {
	proc := core.DefaultProcessorConfig()

	return &Config{
		LogLevel:    LogInfo,
		Target:      tuning.TargetA.String(),
		ToleranceHz: tuner.DefaultToleranceHz,
		SampleRate:  proc.SampleRate,
		FrameSize:   proc.BlockSize,
		NoiseFloor:  pitch.DefaultNoiseFloor,
		Window:      window.TypeHann.String(),
	}
}

// Session converts cfg into a tuner session configuration.
func (c *Config) Session() (tuner.Config, error) {
	target, err := tuning.ParseTarget(c.Target)
	if err != nil {
		return tuner.Config{}, fmt.Errorf("config: %w", err)
	}

	win, err := window.ParseType(c.Window)
	if err != nil {
		return tuner.Config{}, fmt.Errorf("config: %w", err)
	}

	return tuner.Config{
		Target:           target,
		ToleranceHz:      c.ToleranceHz,
		SampleRate:       c.SampleRate,
		FrameSize:        c.FrameSize,
		AmplitudeDivisor: c.AmplitudeDivisor,
		NoiseFloor:       c.NoiseFloor,
		Window:           win,
	}, nil
}
