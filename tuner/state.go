package tuner

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-tuner/tuning"
)

// State is a session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateListening
	StateEvaluating
	StateStopped
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateListening:  "listening",
	StateEvaluating: "evaluating",
	StateStopped:    "stopped",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// StopReason says why a session reached StateStopped.
type StopReason int

const (
	// ReasonNone is reported by sessions that have not stopped.
	ReasonNone StopReason = iota
	// ReasonInTune means a frame fell inside the tolerance band.
	ReasonInTune
	// ReasonStreamClosed means the source ended or failed.
	ReasonStreamClosed
	// ReasonCanceled means the run context was canceled.
	ReasonCanceled
	// ReasonFailed means a frame violated the analysis contract.
	ReasonFailed
)

var reasonNames = map[StopReason]string{
	ReasonNone:         "none",
	ReasonInTune:       "in_tune",
	ReasonStreamClosed: "stream_closed",
	ReasonCanceled:     "canceled",
	ReasonFailed:       "failed",
}

func (r StopReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}

	return fmt.Sprintf("StopReason(%d)", int(r))
}

// Event describes one evaluated frame.
type Event struct {
	// Cycle counts evaluated frames from 1.
	Cycle int

	Target tuning.Target

	// Note is the octave-less note name, empty when Verdict is
	// VerdictUndetermined.
	Note string

	// Frequency is the estimated frequency in Hz, 0 when undetermined.
	Frequency float64

	// Cents is the deviation of Frequency from Note's equal-tempered pitch.
	Cents float64

	Bin       int
	Magnitude float64
	Verdict   tuning.Verdict

	// LevelDB is the RMS frame level in dBFS, -Inf for digital silence.
	LevelDB float64

	// Elapsed covers the frame read and its evaluation.
	Elapsed time.Duration
}

// Determined reports whether a pitch was found in the frame.
func (e Event) Determined() bool {
	return e.Verdict != tuning.VerdictUndetermined
}

// Outcome is the terminal result of a session.
type Outcome struct {
	Reason StopReason
	Cycles int

	// Last is the final evaluated frame. It is the zero Event when the
	// session stopped before evaluating any frame.
	Last Event

	// Err holds the cause for ReasonStreamClosed, ReasonCanceled and
	// ReasonFailed.
	Err error
}
