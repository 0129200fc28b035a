package tuner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/spectrum"
	"github.com/cwbudde/algo-tuner/dsp/window"
	"github.com/cwbudde/algo-tuner/measure/level"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/tuning"
)

// ErrSessionStopped is returned by Run on a session that has already run.
var ErrSessionStopped = errors.New("tuner: session already used")

// DefaultToleranceHz is the reference in-tune band half-width.
const DefaultToleranceHz = 4.0

// Config holds session parameters.
type Config struct {
	Target tuning.Target

	// ToleranceHz is the half-width of the in-tune band. Negative values
	// are treated as zero.
	ToleranceHz float64

	// SampleRate and FrameSize default to 22050 Hz and 2048 samples.
	SampleRate float64
	FrameSize  int

	// AmplitudeDivisor defaults to FrameSize/4.
	AmplitudeDivisor float64

	NoiseFloor float64
	Window     window.Type
}

// DefaultConfig returns the reference configuration for target.
func DefaultConfig(target tuning.Target) Config {
	proc := core.DefaultProcessorConfig()

	return Config{
		Target:      target,
		ToleranceHz: DefaultToleranceHz,
		SampleRate:  proc.SampleRate,
		FrameSize:   proc.BlockSize,
		NoiseFloor:  pitch.DefaultNoiseFloor,
		Window:      window.TypeHann,
	}
}

// Session is a single tune-one-string run.
type Session struct {
	cfg       Config
	analyzer  *spectrum.Analyzer
	estimator *pitch.Estimator
	logger    *slog.Logger
	recorder  Recorder

	mu    sync.Mutex
	state State
	used  bool
}

// NewSession validates cfg and prepares the analysis pipeline. An invalid
// target fails with an error wrapping tuning.ErrUnknownTarget.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	cfg = normalizeConfig(cfg)

	if !cfg.Target.Valid() {
		return nil, fmt.Errorf("tuner session: %w: %v", tuning.ErrUnknownTarget, cfg.Target)
	}

	analyzer, err := spectrum.NewAnalyzer(spectrum.AnalyzerConfig{
		SampleRate: cfg.SampleRate,
		FrameSize:  cfg.FrameSize,
		Divisor:    cfg.AmplitudeDivisor,
		Window:     cfg.Window,
	})
	if err != nil {
		return nil, fmt.Errorf("tuner session: %w", err)
	}

	cfg.AmplitudeDivisor = analyzer.Config().Divisor

	s := &Session{
		cfg:       cfg,
		analyzer:  analyzer,
		estimator: pitch.NewEstimator(pitch.Config{NoiseFloor: cfg.NoiseFloor}),
		logger:    slog.Default(),
		recorder:  nopRecorder{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Config returns the normalised session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Run drives the session until it stops. Each evaluated frame is passed to
// emit, which may be nil.
//
// A closed or failing source ends the session with ReasonStreamClosed and a
// nil error. Run returns a non-nil error when ctx is canceled, when a frame
// has the wrong length, and when the session has already been run.
func (s *Session) Run(ctx context.Context, src Source, emit func(Event)) (Outcome, error) {
	if err := s.begin(); err != nil {
		return Outcome{}, err
	}

	if emit == nil {
		emit = func(Event) {}
	}

	var out Outcome

	if !src.Active() {
		return s.stop(ctx, out, ReasonStreamClosed, fmt.Errorf("%w: source inactive", ErrStreamClosed)), nil
	}

	s.setState(StateListening)

	for {
		if err := ctx.Err(); err != nil {
			return s.stop(ctx, out, ReasonCanceled, err), err
		}

		start := time.Now()

		frame, err := src.ReadFrame(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s.stop(ctx, out, ReasonCanceled, ctxErr), ctxErr
			}

			if !errors.Is(err, ErrStreamClosed) {
				err = fmt.Errorf("%w: %w", ErrStreamClosed, err)
			}

			return s.stop(ctx, out, ReasonStreamClosed, err), nil
		}

		s.setState(StateEvaluating)

		ev, err := s.evaluate(frame)
		if err != nil {
			return s.stop(ctx, out, ReasonFailed, err), err
		}

		out.Cycles++
		ev.Cycle = out.Cycles
		ev.Elapsed = time.Since(start)
		out.Last = ev

		s.logger.Debug("tuner cycle",
			"cycle", ev.Cycle,
			"note", ev.Note,
			"frequency_hz", ev.Frequency,
			"level_dbfs", ev.LevelDB,
			"verdict", ev.Verdict.String())

		s.recorder.RecordCycle(ctx, ev)
		emit(ev)

		if ev.Verdict == tuning.VerdictInTune {
			return s.stop(ctx, out, ReasonInTune, nil), nil
		}

		if !src.Active() {
			return s.stop(ctx, out, ReasonStreamClosed, fmt.Errorf("%w: source inactive", ErrStreamClosed)), nil
		}

		s.setState(StateListening)
	}
}

func (s *Session) evaluate(frame []int16) (Event, error) {
	spec, err := s.analyzer.Analyze(frame)
	if err != nil {
		return Event{}, err
	}

	est := s.estimator.Estimate(spec)
	ev := Event{
		Target:    s.cfg.Target,
		Frequency: est.Frequency,
		Bin:       est.Bin,
		Magnitude: est.Magnitude,
		Verdict:   tuning.Compare(est, s.cfg.Target, s.cfg.ToleranceHz),
		LevelDB:   level.RMSdB(frame),
	}

	if !est.Determined() {
		return ev, nil
	}

	if ev.Note, err = est.Note(); err != nil {
		return Event{}, err
	}

	if ev.Cents, err = pitch.Cents(est.Frequency); err != nil {
		return Event{}, err
	}

	return ev, nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.used {
		return ErrSessionStopped
	}

	s.used = true

	return nil
}

func (s *Session) setState(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()

	if prev != next {
		s.logger.Debug("tuner state", "from", prev.String(), "to", next.String())
	}
}

func (s *Session) stop(ctx context.Context, out Outcome, reason StopReason, cause error) Outcome {
	s.setState(StateStopped)

	out.Reason = reason
	out.Err = cause

	attrs := []any{"reason", reason.String(), "cycles", out.Cycles, "target", s.cfg.Target.String()}
	if cause != nil {
		attrs = append(attrs, "error", cause)
	}

	s.logger.Info("tuner session stopped", attrs...)
	s.recorder.RecordStop(context.WithoutCancel(ctx), out)

	return out
}

func normalizeConfig(cfg Config) Config {
	def := core.DefaultProcessorConfig()

	if cfg.SampleRate == 0 {
		cfg.SampleRate = def.SampleRate
	}

	if cfg.FrameSize == 0 {
		cfg.FrameSize = def.BlockSize
	}

	if cfg.ToleranceHz < 0 {
		cfg.ToleranceHz = 0
	}

	if cfg.NoiseFloor < 0 {
		cfg.NoiseFloor = 0
	}

	return cfg
}
