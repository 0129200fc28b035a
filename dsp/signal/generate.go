package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// Generator creates deterministic test signals from a shared configuration.
type Generator struct {
	cfg core.ProcessorConfig
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg: core.ApplyProcessorOptions(opts...),
	}
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave starting at phase zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.SineAt(freqHz, amplitude, 0, samples)
}

// SineAt generates a sine wave whose first sample is sample index offset of
// an infinitely long tone. Consecutive calls with offsets advancing by samples
// produce a phase-continuous signal.
func (g *Generator) SineAt(freqHz, amplitude float64, offset uint64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(offset+uint64(i)))
	}
	return out, nil
}

// Block generates one processing block (cfg.BlockSize samples) of a sine
// quantised to signed 16-bit PCM. level is the peak amplitude relative to
// full scale and must be in [0, 1].
func (g *Generator) Block(freqHz, level float64) ([]int16, error) {
	if level < 0 || level > 1 {
		return nil, fmt.Errorf("block level must be in [0,1]: %f", level)
	}
	x, err := g.Sine(freqHz, level, g.cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	return ToPCM16(x), nil
}

// ToPCM16 quantises samples in [-1, 1] to signed 16-bit PCM with rounding.
// Values outside the range are clipped.
func ToPCM16(data []float64) []int16 {
	out := make([]int16, len(data))
	for i, v := range data {
		s := math.Round(v * math.MaxInt16)
		switch {
		case s > math.MaxInt16:
			s = math.MaxInt16
		case s < math.MinInt16:
			s = math.MinInt16
		}
		out[i] = int16(s)
	}
	return out
}

// FromPCM16 converts signed 16-bit PCM to floats in [-1, 1).
func FromPCM16(data []int16) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) / (math.MaxInt16 + 1)
	}
	return out
}
