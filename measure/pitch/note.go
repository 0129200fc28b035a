package pitch

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFrequency is returned for frequencies that are not strictly positive.
var ErrInvalidFrequency = errors.New("pitch: invalid frequency")

const (
	referenceHz       = 440.0
	referenceSemitone = 69
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteNames returns the twelve pitch-class names starting at C.
func NoteNames() [12]string {
	return noteNames
}

// Semitone returns the continuous MIDI-style semitone number of freqHz,
// 12*log2(freqHz/440)+69.
func Semitone(freqHz float64) (float64, error) {
	if !(freqHz > 0) || math.IsInf(freqHz, 0) {
		return 0, fmt.Errorf("%w: %v Hz", ErrInvalidFrequency, freqHz)
	}

	return 12*math.Log2(freqHz/referenceHz) + referenceSemitone, nil
}

// NoteName returns the pitch-class name of the semitone nearest to freqHz.
func NoteName(freqHz float64) (string, error) {
	st, err := Semitone(freqHz)
	if err != nil {
		return "", err
	}

	return noteNames[pitchClass(int(math.Round(st)))], nil
}

// Cents returns the deviation of freqHz from the nearest equal-tempered
// semitone, in the range [-50, 50].
func Cents(freqHz float64) (float64, error) {
	st, err := Semitone(freqHz)
	if err != nil {
		return 0, err
	}

	return 100 * (st - math.Round(st)), nil
}

// SemitoneFrequency returns the frequency of an integer semitone number.
func SemitoneFrequency(semitone int) float64 {
	return referenceHz * math.Exp2(float64(semitone-referenceSemitone)/12)
}

func pitchClass(semitone int) int {
	return ((semitone % 12) + 12) % 12
}
