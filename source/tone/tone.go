// Package tone provides a synthetic tuner source that plays a schedule of
// pure tones, one frame per scheduled frequency.
package tone

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/signal"
	"github.com/cwbudde/algo-tuner/tuner"
)

const defaultLevel = 0.25

// Config holds tone source parameters.
type Config struct {
	SampleRate float64
	FrameSize  int

	// Level is the peak amplitude relative to full scale, in (0, 1].
	// Zero selects 0.25.
	Level float64

	// Realtime paces ReadFrame to one frame per FrameSize/SampleRate seconds.
	Realtime bool
}

// Source is a tuner.Source producing phase-continuous sine frames. A
// scheduled frequency of 0 yields a silent frame.
type Source struct {
	cfg      Config
	gen      *signal.Generator
	schedule []float64
	interval time.Duration

	mu     sync.Mutex
	next   int
	offset uint64
	closed bool
}

// New creates a source that plays schedule once and then closes.
func New(cfg Config, schedule ...float64) (*Source, error) {
	def := core.DefaultProcessorConfig()
	if cfg.SampleRate == 0 {
		cfg.SampleRate = def.SampleRate
	}

	if cfg.FrameSize == 0 {
		cfg.FrameSize = def.BlockSize
	}

	if cfg.Level == 0 {
		cfg.Level = defaultLevel
	}

	if cfg.SampleRate < 0 || cfg.FrameSize < 0 {
		return nil, fmt.Errorf("tone source sample rate and frame size must be > 0: %f, %d", cfg.SampleRate, cfg.FrameSize)
	}

	if cfg.Level < 0 || cfg.Level > 1 {
		return nil, fmt.Errorf("tone source level must be in (0,1]: %f", cfg.Level)
	}

	for i, f := range schedule {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("tone source frequency %d must be >= 0: %f", i, f)
		}
	}

	return &Source{
		cfg:      cfg,
		gen:      signal.NewGenerator(core.WithSampleRate(cfg.SampleRate), core.WithBlockSize(cfg.FrameSize)),
		schedule: append([]float64(nil), schedule...),
		interval: time.Duration(float64(cfg.FrameSize) / cfg.SampleRate * float64(time.Second)),
	}, nil
}

// Sweep returns the frequencies from, from+step, ... up to and including to.
func Sweep(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}

	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)

	for i := range out {
		out[i] = from + float64(i)*step
	}

	return out
}

// Config returns the normalised source configuration.
func (s *Source) Config() Config {
	return s.cfg
}

// Active reports whether scheduled frames remain.
func (s *Source) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.closed && s.next < len(s.schedule)
}

// Remaining returns the number of frames left in the schedule.
func (s *Source) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}

	return len(s.schedule) - s.next
}

// ReadFrame returns the next scheduled tone.
func (s *Source) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed || s.next >= len(s.schedule) {
		s.mu.Unlock()
		return nil, fmt.Errorf("tone source: %w", tuner.ErrStreamClosed)
	}

	freq := s.schedule[s.next]
	offset := s.offset
	s.next++
	s.offset += uint64(s.cfg.FrameSize)
	s.mu.Unlock()

	if s.cfg.Realtime {
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	x, err := s.gen.SineAt(freq, s.cfg.Level, offset, s.cfg.FrameSize)
	if err != nil {
		return nil, err
	}

	return signal.ToPCM16(x), nil
}

// Close ends the stream. Subsequent reads fail with tuner.ErrStreamClosed.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
