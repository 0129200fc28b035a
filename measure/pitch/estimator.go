package pitch

import "github.com/cwbudde/algo-tuner/dsp/spectrum"

// DefaultNoiseFloor is the peak magnitude below which a frame is treated as
// silent when used with the default amplitude divisor of frameSize/4. On that
// scale a bin-centred tone of PCM amplitude A peaks at about A.
const DefaultNoiseFloor = 100.0

// Config holds estimator parameters.
type Config struct {
	// NoiseFloor is the minimum peak magnitude accepted as a tone.
	// Negative values are treated as zero.
	NoiseFloor float64
}

// Estimate is the result of peak picking a single spectrum.
//
// The zero value is the undetermined estimate: bin 0 is never selected, so a
// zero Bin always means no tone was found.
type Estimate struct {
	Frequency float64
	Bin       int
	Magnitude float64
}

// Determined reports whether e carries a frequency.
func (e Estimate) Determined() bool {
	return e.Bin > 0
}

// Note returns the octave-less note name of e.
func (e Estimate) Note() (string, error) {
	return NoteName(e.Frequency)
}

// Estimator picks the dominant bin of magnitude spectra.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an estimator.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: normalizeConfig(cfg)}
}

// Config returns the normalised estimator configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Estimate returns the frequency of the largest non-DC bin of s. Equal
// maxima resolve to the lowest bin. A peak that is not positive or lies below
// the noise floor yields the undetermined estimate.
func (e *Estimator) Estimate(s spectrum.Spectrum) Estimate {
	bin, mag := peakBin(s.Magnitudes)
	if bin <= 0 || mag <= 0 || mag < e.cfg.NoiseFloor {
		return Estimate{}
	}

	return Estimate{
		Frequency: s.Frequency(bin),
		Bin:       bin,
		Magnitude: mag,
	}
}

// EstimateSpectrum is a one-shot estimate with cfg.
func EstimateSpectrum(s spectrum.Spectrum, cfg Config) Estimate {
	return NewEstimator(cfg).Estimate(s)
}

func normalizeConfig(cfg Config) Config {
	if cfg.NoiseFloor < 0 {
		cfg.NoiseFloor = 0
	}

	return cfg
}

// peakBin returns the first index of the maximum over mag[1:], or -1 when
// there is no non-DC bin.
func peakBin(mag []float64) (int, float64) {
	if len(mag) < 2 {
		return -1, 0
	}

	best := 1
	for k := 2; k < len(mag); k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}

	return best, mag[best]
}
