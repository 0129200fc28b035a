package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// PCMSine generates a sine frame in signed 16-bit PCM. amplitude is given in
// PCM units and is clipped to the int16 range.
func PCMSine(freqHz, sampleRate, amplitude float64, length int) []int16 {
	return toPCM(DeterministicSine(freqHz, sampleRate, amplitude, length))
}

// PCMNoise generates a deterministic white-noise frame in signed 16-bit PCM.
func PCMNoise(seed int64, amplitude float64, length int) []int16 {
	return toPCM(DeterministicNoise(seed, amplitude, length))
}

// PCMDC generates a constant-valued PCM frame.
func PCMDC(value int16, length int) []int16 {
	out := make([]int16, length)
	for i := range out {
		out[i] = value
	}
	return out
}

func toPCM(data []float64) []int16 {
	out := make([]int16, len(data))
	for i, v := range data {
		out[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v))))
	}
	return out
}
