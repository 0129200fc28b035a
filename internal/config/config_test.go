package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-tuner/dsp/window"
	"github.com/cwbudde/algo-tuner/internal/config"
	"github.com/cwbudde/algo-tuner/tuning"
)

const sampleYAML = `
log_level: debug
device: "usb"
target: E4
tolerance_hz: 2.5
sample_rate: 44100
frame_size: 4096
amplitude_divisor: 0
noise_floor: 50
window: blackman
metrics_addr: ":9464"
`

func TestLoadFromReader_Valid(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != config.LogDebug {
		t.Errorf("log_level: got %q, want %q", cfg.LogLevel, config.LogDebug)
	}
	if cfg.Device != "usb" {
		t.Errorf("device: got %q, want %q", cfg.Device, "usb")
	}
	if cfg.Target != "E4" {
		t.Errorf("target: got %q, want E4", cfg.Target)
	}
	if cfg.ToleranceHz != 2.5 {
		t.Errorf("tolerance_hz: got %v, want 2.5", cfg.ToleranceHz)
	}
	if cfg.SampleRate != 44100 || cfg.FrameSize != 4096 {
		t.Errorf("sample_rate/frame_size: got %v/%d", cfg.SampleRate, cfg.FrameSize)
	}
	if cfg.NoiseFloor != 50 {
		t.Errorf("noise_floor: got %v, want 50", cfg.NoiseFloor)
	}
	if cfg.MetricsAddr != ":9464" {
		t.Errorf("metrics_addr: got %q", cfg.MetricsAddr)
	}

	sess, err := cfg.Session()
	if err != nil {
		t.Fatalf("Session() error: %v", err)
	}
	if sess.Target != tuning.TargetE4 || sess.Window != window.TypeBlackman || sess.ToleranceHz != 2.5 {
		t.Errorf("Session(): got %+v", sess)
	}
}

func TestLoadFromReader_EmptyKeepsDefaults(t *testing.T) {
	for _, doc := range []string{"", "{}"} {
		cfg, err := config.LoadFromReader(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", doc, err)
		}

		def := config.Default()
		if *cfg != *def {
			t.Errorf("config for %q: got %+v, want %+v", doc, *cfg, *def)
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.Target != "A" || cfg.ToleranceHz != 4 || cfg.SampleRate != 22050 || cfg.FrameSize != 2048 {
		t.Errorf("Default(): got %+v", *cfg)
	}
	if cfg.NoiseFloor != 100 || cfg.Window != "hann" || cfg.LogLevel != config.LogInfo {
		t.Errorf("Default(): got %+v", *cfg)
	}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("Validate(Default()): %v", err)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	_, err := config.LoadFromReader(strings.NewReader("targt: A\n"))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "log level", yaml: "log_level: verbose", want: "log_level"},
		{name: "unknown target", yaml: "target: C", want: "target"},
		{name: "lowercase target", yaml: "target: a", want: "target"},
		{name: "negative tolerance", yaml: "tolerance_hz: -1", want: "tolerance_hz"},
		{name: "zero sample rate", yaml: "sample_rate: 0", want: "sample_rate"},
		{name: "odd frame size", yaml: "frame_size: 2047", want: "frame_size"},
		{name: "frame size one", yaml: "frame_size: 1", want: "frame_size"},
		{name: "negative divisor", yaml: "amplitude_divisor: -4", want: "amplitude_divisor"},
		{name: "negative noise floor", yaml: "noise_floor: -1", want: "noise_floor"},
		{name: "unknown window", yaml: "window: kaiser", want: "window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFromReader(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatalf("expected error for %s, got nil", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_UnknownTargetIsSentinel(t *testing.T) {
	cfg := config.Default()
	cfg.Target = "Z"

	if err := config.Validate(cfg); !errors.Is(err, tuning.ErrUnknownTarget) {
		t.Fatalf("Validate(): got %v, want ErrUnknownTarget", err)
	}

	if _, err := cfg.Session(); !errors.Is(err, tuning.ErrUnknownTarget) {
		t.Fatalf("Session(): got %v, want ErrUnknownTarget", err)
	}
}

func TestValidate_JoinsAllErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Target = "X"
	cfg.SampleRate = -1
	cfg.Window = "triangle"

	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}

	for _, want := range []string{"target", "sample_rate", "window"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuner.yaml")
	if err := os.WriteFile(path, []byte("target: D\ntolerance_hz: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Target != "D" || cfg.ToleranceHz != 1 || cfg.FrameSize != 2048 {
		t.Errorf("Load(): got %+v", *cfg)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvDevice:      "2",
		config.EnvTarget:      "G",
		config.EnvToleranceHz: "1.5",
		config.EnvLogLevel:    " WARN ",
		config.EnvNoiseFloor:  "250",
		config.EnvMetricsAddr: "localhost:9000",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.Default()
	if err := config.ApplyEnv(cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv(): %v", err)
	}

	if cfg.Device != "2" || cfg.Target != "G" || cfg.ToleranceHz != 1.5 {
		t.Errorf("ApplyEnv(): got %+v", *cfg)
	}
	if cfg.LogLevel != config.LogWarn || cfg.NoiseFloor != 250 || cfg.MetricsAddr != "localhost:9000" {
		t.Errorf("ApplyEnv(): got %+v", *cfg)
	}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("Validate(): %v", err)
	}
}

func TestApplyEnv_BadNumbers(t *testing.T) {
	env := map[string]string{
		config.EnvToleranceHz: "four",
		config.EnvNoiseFloor:  "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.Default()
	err := config.ApplyEnv(cfg, lookup)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{config.EnvToleranceHz, config.EnvNoiseFloor} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
	if cfg.ToleranceHz != 4 || cfg.NoiseFloor != 100 {
		t.Errorf("bad values must not be applied: got %+v", *cfg)
	}
}

func TestApplyEnv_NoVariables(t *testing.T) {
	cfg := config.Default()
	if err := config.ApplyEnv(cfg, func(string) (string, bool) { return "", false }); err != nil {
		t.Fatalf("ApplyEnv(): %v", err)
	}
	if *cfg != *config.Default() {
		t.Errorf("ApplyEnv changed config: %+v", *cfg)
	}
}
