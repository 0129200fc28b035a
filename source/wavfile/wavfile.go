// Package wavfile provides a tuner source that reads PCM WAV recordings.
//
// Multi-channel files are downmixed to mono by averaging and samples are
// rescaled to signed 16-bit. A trailing partial frame is discarded.
package wavfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-tuner/tuner"
)

// ErrUnsupportedFormat is returned for files that are not 16, 24 or 32 bit
// integer PCM.
var ErrUnsupportedFormat = errors.New("wavfile: unsupported format")

// Source is a tuner.Source backed by a WAV stream.
type Source struct {
	dec        *wav.Decoder
	closer     io.Closer
	frameSize  int
	channels   int
	shift      uint
	sampleRate float64
	buf        *audio.IntBuffer

	mu   sync.Mutex
	done bool
}

// Open opens the WAV file at path. The returned source owns the file and
// must be closed.
func Open(path string, frameSize int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavfile open: %w", err)
	}

	s, err := New(f, frameSize)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("wavfile %s: %w", path, err)
	}

	s.closer = f

	return s, nil
}

// New reads the WAV header from r and prepares frame decoding.
func New(r io.ReadSeeker, frameSize int) (*Source, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("wavfile frame size must be > 0: %d", frameSize)
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV stream", ErrUnsupportedFormat)
	}

	format := dec.Format()
	depth := int(dec.BitDepth)

	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: audio format %d is not integer PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	if depth != 16 && depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, depth)
	}

	if format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedFormat, format.NumChannels, format.SampleRate)
	}

	return &Source{
		dec:        dec,
		frameSize:  frameSize,
		channels:   format.NumChannels,
		shift:      uint(depth - 16),
		sampleRate: float64(format.SampleRate),
		buf: &audio.IntBuffer{
			Format:         format,
			Data:           make([]int, frameSize*format.NumChannels),
			SourceBitDepth: depth,
		},
	}, nil
}

// SampleRate returns the file sample rate in Hz.
func (s *Source) SampleRate() float64 {
	return s.sampleRate
}

// Channels returns the channel count of the file.
func (s *Source) Channels() int {
	return s.channels
}

// Active reports whether the end of the file has not been reached yet.
func (s *Source) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.done
}

// ReadFrame decodes the next frameSize mono samples.
func (s *Source) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil, fmt.Errorf("wavfile: %w", tuner.ErrStreamClosed)
	}

	want := len(s.buf.Data)
	got := 0
	chunk := &audio.IntBuffer{Format: s.buf.Format, SourceBitDepth: s.buf.SourceBitDepth}

	for got < want {
		chunk.Data = s.buf.Data[got:]

		n, err := s.dec.PCMBuffer(chunk)
		got += n

		if err != nil && !errors.Is(err, io.EOF) {
			s.done = true
			return nil, fmt.Errorf("wavfile decode: %w: %w", tuner.ErrStreamClosed, err)
		}

		if n == 0 || err != nil {
			break
		}
	}

	if got < want {
		s.done = true
		return nil, fmt.Errorf("wavfile: end of data: %w", tuner.ErrStreamClosed)
	}

	return downmix(s.buf.Data, s.channels, s.shift), nil
}

// Close releases the underlying file, if any. Later reads fail with
// tuner.ErrStreamClosed.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.done = true

	if s.closer == nil {
		return nil
	}

	err := s.closer.Close()
	s.closer = nil

	return err
}

// downmix averages interleaved channels and shifts samples down to 16 bit.
func downmix(data []int, channels int, shift uint) []int16 {
	out := make([]int16, len(data)/channels)

	for i := range out {
		sum := 0
		for c := range channels {
			sum += data[i*channels+c] >> shift
		}

		out[i] = int16(sum / channels)
	}

	return out
}
