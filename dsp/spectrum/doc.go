// Package spectrum turns fixed-size PCM frames into one-sided magnitude
// spectra.
//
// An [Analyzer] owns the window coefficients and the FFT plan for a single
// frame size. Each call to [Analyzer.Analyze] windows the frame, scales it by
// a constant amplitude divisor, runs a forward transform, and returns a fresh
// [Spectrum] of frameSize/2+1 bins. Bin k lies at k*sampleRate/frameSize Hz.
package spectrum
