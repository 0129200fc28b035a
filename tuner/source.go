package tuner

import (
	"context"
	"errors"
)

// ErrStreamClosed reports that an audio source can no longer deliver frames.
// Sources return it, possibly wrapped, from ReadFrame.
var ErrStreamClosed = errors.New("tuner: stream closed")

// Source delivers fixed-size mono PCM frames.
type Source interface {
	// Active reports whether the source can still deliver frames.
	Active() bool

	// ReadFrame blocks until one full frame is available. Once the
	// underlying stream has ended it returns an error wrapping
	// ErrStreamClosed.
	ReadFrame(ctx context.Context) ([]int16, error)
}
