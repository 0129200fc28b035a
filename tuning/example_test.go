package tuning_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/tuning"
)

func ExampleCompareFrequency() {
	target, err := tuning.ParseTarget("A")
	if err != nil {
		panic(err)
	}

	for _, f := range []float64{104, 108, 116} {
		fmt.Printf("%.0f Hz: %v\n", f, tuning.CompareFrequency(f, target.Frequency(), 4))
	}
	// Output:
	// 104 Hz: flat
	// 108 Hz: in_tune
	// 116 Hz: sharp
}

func ExampleTargets() {
	for _, t := range tuning.Targets() {
		fmt.Printf("%s=%g ", t, t.Frequency())
	}
	fmt.Println()
	// Output:
	// E2=82.41 A=110 D=146.8 G=196 B=246.9 E4=329.6
}
