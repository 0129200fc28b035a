// Package device provides a tuner source reading mono 16-bit frames from a
// PortAudio input device.
//
// Open acquires the PortAudio library and the stream together and Close
// releases both, so every Source must be closed exactly once by its owner.
package device

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/tuner"
)

// ErrNoDevice is returned when no input device matches a selector.
var ErrNoDevice = errors.New("device: no matching input device")

// Info describes an audio device.
type Info struct {
	Index             int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
}

// IsInput reports whether the device can capture audio.
func (i Info) IsInput() bool {
	return i.MaxInputChannels > 0
}

func (i Info) String() string {
	return fmt.Sprintf("%d: %s (%s, %d in, %.0f Hz)", i.Index, i.Name, i.HostAPI, i.MaxInputChannels, i.DefaultSampleRate)
}

// Config selects and parameterises the input stream.
type Config struct {
	// Device is empty for the default input, a device index, or a
	// case-insensitive substring of the device name.
	Device string

	SampleRate float64
	FrameSize  int
}

// Devices lists the input-capable devices.
func Devices() ([]Info, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	all, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio devices: %w", err)
	}

	return Inputs(infos(all)), nil
}

// Inputs filters devices down to input-capable ones, ordered by index.
func Inputs(devices []Info) []Info {
	out := make([]Info, 0, len(devices))
	for _, d := range devices {
		if d.IsInput() {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })

	return out
}

// Match selects an input device by index or by case-insensitive name
// substring. A numeric selector is always treated as an index. On several
// name matches the lowest index wins.
func Match(devices []Info, selector string) (Info, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return Info{}, fmt.Errorf("%w: empty selector", ErrNoDevice)
	}

	inputs := Inputs(devices)

	if idx, err := strconv.Atoi(selector); err == nil {
		for _, d := range inputs {
			if d.Index == idx {
				return d, nil
			}
		}

		return Info{}, fmt.Errorf("%w: index %d", ErrNoDevice, idx)
	}

	needle := strings.ToLower(selector)
	for _, d := range inputs {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d, nil
		}
	}

	return Info{}, fmt.Errorf("%w: %q", ErrNoDevice, selector)
}

// Source is an open PortAudio input stream.
type Source struct {
	info   Info
	stream *portaudio.Stream
	buf    []int16

	mu         sync.Mutex
	closed     bool
	overflows  int
	terminated bool
}

// Open initialises PortAudio, opens a mono int16 input stream on the
// selected device and starts it.
func Open(cfg Config) (*Source, error) {
	def := core.DefaultProcessorConfig()
	if cfg.SampleRate == 0 {
		cfg.SampleRate = def.SampleRate
	}

	if cfg.FrameSize == 0 {
		cfg.FrameSize = def.BlockSize
	}

	if cfg.SampleRate < 0 || cfg.FrameSize < 0 {
		return nil, fmt.Errorf("device sample rate and frame size must be > 0: %f, %d", cfg.SampleRate, cfg.FrameSize)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	src, err := open(cfg)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, err
	}

	return src, nil
}

func open(cfg Config) (*Source, error) {
	dev, info, err := selectDevice(cfg.Device)
	if err != nil {
		return nil, err
	}

	p := portaudio.HighLatencyParameters(dev, nil)
	p.Input.Channels = 1
	p.Output.Channels = 0
	p.SampleRate = cfg.SampleRate
	p.FramesPerBuffer = cfg.FrameSize

	buf := make([]int16, cfg.FrameSize)

	stream, err := portaudio.OpenStream(p, buf)
	if err != nil {
		return nil, fmt.Errorf("portaudio open stream on %q: %w", dev.Name, err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("portaudio start stream on %q: %w", dev.Name, err)
	}

	return &Source{info: info, stream: stream, buf: buf}, nil
}

func selectDevice(selector string) (*portaudio.DeviceInfo, Info, error) {
	all, err := portaudio.Devices()
	if err != nil {
		return nil, Info{}, fmt.Errorf("portaudio devices: %w", err)
	}

	list := infos(all)

	if strings.TrimSpace(selector) == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, Info{}, fmt.Errorf("%w: default input: %w", ErrNoDevice, err)
		}

		for i, d := range all {
			if d == dev || (d != nil && d.Name == dev.Name) {
				return dev, infoFrom(i, dev), nil
			}
		}

		return dev, infoFrom(-1, dev), nil
	}

	info, err := Match(list, selector)
	if err != nil {
		return nil, Info{}, err
	}

	return all[info.Index], info, nil
}

// Device describes the opened device.
func (s *Source) Device() Info {
	return s.info
}

// Overflows returns how many reads reported dropped input samples.
func (s *Source) Overflows() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.overflows
}

// Active reports whether the stream is still open.
func (s *Source) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.closed
}

// ReadFrame blocks until the device has delivered one full frame. Input
// overflow is tolerated; any other stream error closes the source.
func (s *Source) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("device: %w", tuner.ErrStreamClosed)
	}

	if err := s.stream.Read(); err != nil {
		if !errors.Is(err, portaudio.InputOverflowed) {
			s.closed = true
			return nil, fmt.Errorf("device read: %w: %w", tuner.ErrStreamClosed, err)
		}

		s.overflows++
	}

	return append([]int16(nil), s.buf...), nil
}

// Close stops the stream and releases PortAudio. It is safe to call more
// than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	if s.terminated {
		return nil
	}

	s.terminated = true

	return errors.Join(s.stream.Stop(), s.stream.Close(), portaudio.Terminate())
}

// infos converts a device list; PortAudio device indices are list positions.
func infos(devices []*portaudio.DeviceInfo) []Info {
	out := make([]Info, 0, len(devices))
	for i, d := range devices {
		if d != nil {
			out = append(out, infoFrom(i, d))
		}
	}

	return out
}

func infoFrom(index int, d *portaudio.DeviceInfo) Info {
	info := Info{
		Index:             index,
		Name:              d.Name,
		MaxInputChannels:  d.MaxInputChannels,
		DefaultSampleRate: d.DefaultSampleRate,
	}

	if d.HostApi != nil {
		info.HostAPI = d.HostApi.Name
	}

	return info
}
