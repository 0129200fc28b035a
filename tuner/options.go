package tuner

import (
	"context"
	"log/slog"
)

// Recorder observes session activity, typically for metrics.
type Recorder interface {
	RecordCycle(ctx context.Context, ev Event)
	RecordStop(ctx context.Context, out Outcome)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder attaches a Recorder. A nil recorder is ignored.
func WithRecorder(rec Recorder) Option {
	return func(s *Session) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordCycle(context.Context, Event)   {}
func (nopRecorder) RecordStop(context.Context, Outcome) {}
