// Package pitch extracts the dominant frequency from a magnitude spectrum and
// names it in twelve-tone equal temperament.
//
// The estimator is a plain peak picker: it ignores the DC bin, resolves ties
// towards the lowest bin, and reports nothing when the peak does not clear a
// configurable noise floor. Frequency resolution is therefore limited to one
// bin, sampleRate/frameSize Hz.
//
// Note names are octave-insensitive and relative to A4 = 440 Hz.
package pitch
