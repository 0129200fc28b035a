// Package level measures the input level of PCM frames relative to digital
// full scale.
package level

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/signal"
)

// Stats holds frame level statistics. Linear values are relative to full
// scale (1.0 = 32768).
//
//nolint:revive
type Stats struct {
	Length  int
	DC      float64 // mean
	RMS     float64
	RMS_dB  float64
	Peak    float64 // max |x|
	Peak_dB float64
	Clipped int // samples at either int16 limit
}

// emptyStats returns a zero-valued Stats with -Inf for all dB fields.
func emptyStats() Stats {
	return Stats{
		RMS_dB:  math.Inf(-1),
		Peak_dB: math.Inf(-1),
	}
}

// Frame computes level statistics of a signed 16-bit PCM frame in one pass.
func Frame(frame []int16) Stats {
	n := len(frame)
	if n == 0 {
		return emptyStats()
	}

	var sum, sumSq, peak float64
	clipped := 0

	for i, x := range signal.FromPCM16(frame) {
		sum += x
		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
		}

		if frame[i] == math.MaxInt16 || frame[i] == math.MinInt16 {
			clipped++
		}
	}

	rms := math.Sqrt(sumSq / float64(n))

	return Stats{
		Length:  n,
		DC:      sum / float64(n),
		RMS:     rms,
		RMS_dB:  core.LinearToDB(rms),
		Peak:    peak,
		Peak_dB: core.LinearToDB(peak),
		Clipped: clipped,
	}
}

// RMSdB returns the RMS level of frame in dBFS, or -Inf for silence.
func RMSdB(frame []int16) float64 {
	if len(frame) == 0 {
		return math.Inf(-1)
	}

	var sumSq float64
	for _, x := range signal.FromPCM16(frame) {
		sumSq += x * x
	}

	return core.LinearToDB(math.Sqrt(sumSq / float64(len(frame))))
}
