package tuning

import (
	"errors"
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		key  string
		want Target
		hz   float64
	}{
		{key: "E2", want: TargetE2, hz: 82.41},
		{key: "A", want: TargetA, hz: 110},
		{key: "D", want: TargetD, hz: 146.8},
		{key: "G", want: TargetG, hz: 196},
		{key: "B", want: TargetB, hz: 246.9},
		{key: "E4", want: TargetE4, hz: 329.6},
		{key: "  G\n", want: TargetG, hz: 196},
	}

	for _, tt := range tests {
		got, err := ParseTarget(tt.key)
		if err != nil {
			t.Fatalf("ParseTarget(%q) error = %v", tt.key, err)
		}

		if got != tt.want {
			t.Fatalf("ParseTarget(%q) = %v, want %v", tt.key, got, tt.want)
		}

		if got.Frequency() != tt.hz {
			t.Fatalf("%v.Frequency() = %v, want %v", got, got.Frequency(), tt.hz)
		}
	}
}

func TestParseTargetUnknown(t *testing.T) {
	for _, key := range []string{"", "a", "e2", "E", "C", "E3", "110"} {
		got, err := ParseTarget(key)
		if !errors.Is(err, ErrUnknownTarget) {
			t.Fatalf("ParseTarget(%q) error = %v, want ErrUnknownTarget", key, err)
		}

		if got.Valid() {
			t.Fatalf("ParseTarget(%q) = %v, want invalid target", key, got)
		}
	}
}

func TestTargetsOrder(t *testing.T) {
	want := []string{"E2", "A", "D", "G", "B", "E4"}

	targets := Targets()
	keys := Keys()

	if len(targets) != len(want) || len(keys) != len(want) {
		t.Fatalf("len(Targets()) = %d, len(Keys()) = %d, want %d", len(targets), len(keys), len(want))
	}

	for i := range want {
		if targets[i].String() != want[i] || keys[i] != want[i] {
			t.Fatalf("entry %d = %v/%s, want %s", i, targets[i], keys[i], want[i])
		}
	}
}

func TestInvalidTarget(t *testing.T) {
	for _, tg := range []Target{0, 7, -1} {
		if tg.Valid() {
			t.Fatalf("%d.Valid() = true", int(tg))
		}

		if tg.Frequency() != 0 {
			t.Fatalf("%d.Frequency() = %v, want 0", int(tg), tg.Frequency())
		}
	}

	if got := Target(9).String(); got != "Target(9)" {
		t.Fatalf("String() = %q", got)
	}
}
