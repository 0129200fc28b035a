package window

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}
		})
	}
}

func TestGenerateNonPositiveLength(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}

	if _, err := Hann(-1); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestHannSymmetricEndpoints(t *testing.T) {
	w, err := Hann(2048)
	if err != nil {
		t.Fatalf("Hann error: %v", err)
	}

	if w[0] != 0 || !almostEqual(w[len(w)-1], 0, 1e-15) {
		t.Fatalf("endpoints = %v, %v, want 0", w[0], w[len(w)-1])
	}

	for i := 0; i < len(w)/2; i++ {
		if !almostEqual(w[i], w[len(w)-1-i], 1e-12) {
			t.Fatalf("asymmetric at %d: %v vs %v", i, w[i], w[len(w)-1-i])
		}
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)

	b := Generate(TypeHann, 16, WithPeriodic())
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("unexpected lengths: %d %d", len(a), len(b))
	}

	if almostEqual(a[15], b[15], 1e-12) {
		t.Fatal("expected different end coefficient for periodic form")
	}
}

func TestWithScale(t *testing.T) {
	plain := Generate(TypeHann, 32)
	scaled := Generate(TypeHann, 32, WithScale(0.25))

	for i := range plain {
		if !almostEqual(scaled[i], plain[i]*0.25, 1e-15) {
			t.Fatalf("scaled[%d] = %v, want %v", i, scaled[i], plain[i]*0.25)
		}
	}

	ignored := Generate(TypeHann, 32, WithScale(-1))
	for i := range plain {
		if ignored[i] != plain[i] {
			t.Fatalf("negative scale should be ignored at %d", i)
		}
	}
}

func TestCoherentGain(t *testing.T) {
	tests := []struct {
		typ  Type
		want float64
	}{
		{TypeRectangular, 1},
		{TypeHann, 0.5},
		{TypeHamming, 0.54},
		{TypeBlackman, 0.42},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, err := CoherentGain(Generate(tt.typ, 4096, WithPeriodic()))
			if err != nil {
				t.Fatalf("CoherentGain error: %v", err)
			}

			if !almostEqual(got, tt.want, 1e-9) {
				t.Fatalf("CoherentGain = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := CoherentGain(nil); !errors.Is(err, errEmptyCoeffs) {
		t.Fatalf("CoherentGain(nil) error = %v, want %v", err, errEmptyCoeffs)
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 2, 0}
	dst := make([]float64, 4)

	if err := ApplyCoefficients(dst, samples, coeffs); err != nil {
		t.Fatalf("ApplyCoefficients error: %v", err)
	}

	want := []float64{0.5, 1, 6, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if err := ApplyCoefficients(dst[:2], samples, coeffs); !errors.Is(err, errMismatchedLength) {
		t.Fatalf("expected length mismatch, got %v", err)
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace error: %v", err)
	}

	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		want    Type
		wantErr bool
	}{
		{name: "hann", want: TypeHann},
		{name: " Hamming ", want: TypeHamming},
		{name: "BLACKMAN", want: TypeBlackman},
		{name: "rectangular", want: TypeRectangular},
		{name: "kaiser", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseType(%q) expected error", tt.name)
				}
				return
			}

			if err != nil || got != tt.want {
				t.Fatalf("ParseType(%q) = %v, %v, want %v", tt.name, got, err, tt.want)
			}
		})
	}
}
