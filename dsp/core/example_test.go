package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(4096),
	)
	fmt.Printf("sampleRate=%.0f blockSize=%d bin=%.2fHz\n", cfg.SampleRate, cfg.BlockSize, cfg.BinResolution())
	// Output:
	// sampleRate=44100 blockSize=4096 bin=10.77Hz
}
