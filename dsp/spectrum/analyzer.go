package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/window"
)

// ErrInvalidFrameSize is returned by [Analyzer.Analyze] when a frame does not
// have exactly the configured number of samples.
var ErrInvalidFrameSize = errors.New("spectrum: invalid frame size")

// AnalyzerConfig holds spectral analysis parameters.
type AnalyzerConfig struct {
	SampleRate float64
	FrameSize  int

	// Divisor scales raw sample values before the transform. Zero selects
	// FrameSize/4, which maps a bin-centred Hann-windowed tone of amplitude A
	// to a peak magnitude of about A.
	Divisor float64

	// Window selects the smoothing window; the zero value is Hann.
	Window window.Type
}

// Analyzer computes magnitude spectra of fixed-size PCM frames.
//
// An Analyzer reuses internal buffers between calls and is not safe for
// concurrent use. The returned spectra are always freshly allocated.
type Analyzer struct {
	cfg     AnalyzerConfig
	binHz   float64
	coeffs  []float64
	samples []float64
	in      []complex128
	out     []complex128
	plan    *algofft.Plan[complex128]
}

// NewAnalyzer validates cfg and prepares the window and FFT plan.
func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(cfg.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum init fft plan: %w", err)
	}

	proc := core.ProcessorConfig{SampleRate: cfg.SampleRate, BlockSize: cfg.FrameSize}

	return &Analyzer{
		cfg:     cfg,
		binHz:   proc.BinResolution(),
		coeffs:  window.Generate(cfg.Window, cfg.FrameSize, window.WithScale(1/cfg.Divisor)),
		samples: make([]float64, cfg.FrameSize),
		in:      make([]complex128, cfg.FrameSize),
		out:     make([]complex128, cfg.FrameSize),
		plan:    plan,
	}, nil
}

// Config returns the normalised analyzer configuration.
func (a *Analyzer) Config() AnalyzerConfig {
	return a.cfg
}

// BinHz returns the bin resolution sampleRate/frameSize in Hz.
func (a *Analyzer) BinHz() float64 {
	return a.binHz
}

// Bins returns the number of bins in every produced spectrum.
func (a *Analyzer) Bins() int {
	return a.cfg.FrameSize/2 + 1
}

// Analyze windows frame, scales it by the amplitude divisor, and returns its
// one-sided magnitude spectrum of FrameSize/2+1 bins.
func (a *Analyzer) Analyze(frame []int16) (Spectrum, error) {
	if len(frame) != a.cfg.FrameSize {
		return Spectrum{}, fmt.Errorf("%w: got %d samples, want %d", ErrInvalidFrameSize, len(frame), a.cfg.FrameSize)
	}

	for i, s := range frame {
		a.samples[i] = float64(s)
	}

	if err := window.ApplyCoefficientsInPlace(a.samples, a.coeffs); err != nil {
		return Spectrum{}, err
	}

	for i, v := range a.samples {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum forward fft: %w", err)
	}

	return Spectrum{
		Magnitudes: Magnitude(a.out[:a.Bins()]),
		BinHz:      a.binHz,
	}, nil
}

func normalizeConfig(cfg AnalyzerConfig) AnalyzerConfig {
	if cfg.Divisor == 0 && cfg.FrameSize >= 4 {
		cfg.Divisor = float64(cfg.FrameSize / 4)
	}

	if cfg.Divisor == 0 {
		cfg.Divisor = 1
	}

	return cfg
}

func validateConfig(cfg AnalyzerConfig) error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("spectrum sample rate must be > 0: %f", cfg.SampleRate)
	}

	if cfg.FrameSize < 2 || !core.IsPowerOfTwo(cfg.FrameSize) {
		return fmt.Errorf("spectrum frame size must be a power of two >= 2: %d", cfg.FrameSize)
	}

	if cfg.Divisor < 0 {
		return fmt.Errorf("spectrum amplitude divisor must be > 0: %f", cfg.Divisor)
	}

	return nil
}
