package tuning

import "github.com/cwbudde/algo-tuner/measure/pitch"

// Verdict classifies an estimate against a target.
type Verdict int

const (
	// VerdictUndetermined means no pitch was estimated for the frame.
	VerdictUndetermined Verdict = iota
	VerdictInTune
	VerdictFlat
	VerdictSharp
)

var verdictNames = map[Verdict]string{
	VerdictUndetermined: "undetermined",
	VerdictInTune:       "in_tune",
	VerdictFlat:         "flat",
	VerdictSharp:        "sharp",
}

func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}

	return "unknown"
}

// Band returns the inclusive in-tune interval around targetHz. A negative
// tolerance is treated as zero.
func Band(targetHz, toleranceHz float64) (lo, hi float64) {
	if toleranceHz < 0 {
		toleranceHz = 0
	}

	return targetHz - toleranceHz, targetHz + toleranceHz
}

// CompareFrequency classifies freqHz against the band around targetHz.
func CompareFrequency(freqHz, targetHz, toleranceHz float64) Verdict {
	lo, hi := Band(targetHz, toleranceHz)

	switch {
	case freqHz < lo:
		return VerdictFlat
	case freqHz > hi:
		return VerdictSharp
	default:
		return VerdictInTune
	}
}

// Compare classifies est against target. Undetermined estimates pass through
// as VerdictUndetermined.
func Compare(est pitch.Estimate, target Target, toleranceHz float64) Verdict {
	if !est.Determined() {
		return VerdictUndetermined
	}

	return CompareFrequency(est.Frequency, target.Frequency(), toleranceHz)
}
