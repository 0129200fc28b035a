package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/window"
	"github.com/cwbudde/algo-tuner/tuning"
)

// Environment variables applied by [ApplyEnv].
const (
	EnvDevice      = "TUNER_DEVICE"
	EnvTarget      = "TUNER_TARGET"
	EnvToleranceHz = "TUNER_TOLERANCE_HZ"
	EnvLogLevel    = "TUNER_LOG_LEVEL"
	EnvNoiseFloor  = "TUNER_NOISE_FLOOR"
	EnvMetricsAddr = "TUNER_METRICS_ADDR"
)

// Load reads the YAML configuration file at path on top of [Default] and
// returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Keys missing from the document keep their default values.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg fields from environment variables found by lookup,
// usually [os.LookupEnv]. Unparseable numbers are reported; the result is
// not validated.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookup(EnvDevice); ok {
		cfg.Device = v
	}
	if v, ok := lookup(EnvTarget); ok {
		cfg.Target = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = LogLevel(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := lookup(EnvToleranceHz); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvToleranceHz, err))
		} else {
			cfg.ToleranceHz = f
		}
	}
	if v, ok := lookup(EnvNoiseFloor); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvNoiseFloor, err))
		} else {
			cfg.NoiseFloor = f
		}
	}

	return errors.Join(errs...)
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if _, err := tuning.ParseTarget(cfg.Target); err != nil {
		errs = append(errs, fmt.Errorf("target: %w", err))
	}
	if cfg.ToleranceHz < 0 {
		errs = append(errs, fmt.Errorf("tolerance_hz must be >= 0: %g", cfg.ToleranceHz))
	}
	if cfg.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be > 0: %g", cfg.SampleRate))
	}
	if cfg.FrameSize < 2 || !core.IsPowerOfTwo(cfg.FrameSize) {
		errs = append(errs, fmt.Errorf("frame_size must be a power of two >= 2: %d", cfg.FrameSize))
	}
	if cfg.AmplitudeDivisor < 0 {
		errs = append(errs, fmt.Errorf("amplitude_divisor must be >= 0: %g", cfg.AmplitudeDivisor))
	}
	if cfg.NoiseFloor < 0 {
		errs = append(errs, fmt.Errorf("noise_floor must be >= 0: %g", cfg.NoiseFloor))
	}
	if _, err := window.ParseType(cfg.Window); err != nil {
		errs = append(errs, fmt.Errorf("window: %w", err))
	}

	return errors.Join(errs...)
}
