package spectrum

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-tuner/internal/testutil"
)

func BenchmarkAnalyze(b *testing.B) {
	for _, n := range []int{512, 2048, 8192} {
		b.Run(fmt.Sprintf("N=%d", n), func(b *testing.B) {
			a, err := NewAnalyzer(AnalyzerConfig{SampleRate: 22050, FrameSize: n})
			if err != nil {
				b.Fatal(err)
			}

			frame := testutil.PCMSine(110, 22050, 8000, n)

			b.ReportAllocs()
			b.SetBytes(int64(n * 2))
			b.ResetTimer()

			for b.Loop() {
				if _, err := a.Analyze(frame); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMagnitude(b *testing.B) {
	in := make([]complex128, 1025)
	for i := range in {
		in[i] = complex(float64(i), float64(-i))
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = Magnitude(in)
	}
}
