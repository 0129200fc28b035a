package tuning

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTarget is returned by [ParseTarget] for keys outside the table.
var ErrUnknownTarget = errors.New("tuning: unknown target")

// Target is one of the six standard-tuning guitar strings.
type Target int

// Standard tuning, low to high. The zero value is not a valid target.
const (
	TargetE2 Target = iota + 1
	TargetA
	TargetD
	TargetG
	TargetB
	TargetE4
)

var targetTable = []struct {
	target Target
	key    string
	hz     float64
}{
	{TargetE2, "E2", 82.41},
	{TargetA, "A", 110},
	{TargetD, "D", 146.8},
	{TargetG, "G", 196},
	{TargetB, "B", 246.9},
	{TargetE4, "E4", 329.6},
}

// ParseTarget resolves a table key. Surrounding whitespace is ignored; the
// key itself is case-sensitive, so "e2" is rejected.
func ParseTarget(key string) (Target, error) {
	key = strings.TrimSpace(key)
	for _, row := range targetTable {
		if row.key == key {
			return row.target, nil
		}
	}

	return 0, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownTarget, key, strings.Join(Keys(), ", "))
}

// Targets returns all targets in table order.
func Targets() []Target {
	out := make([]Target, len(targetTable))
	for i, row := range targetTable {
		out[i] = row.target
	}

	return out
}

// Keys returns all target keys in table order.
func Keys() []string {
	out := make([]string, len(targetTable))
	for i, row := range targetTable {
		out[i] = row.key
	}

	return out
}

// Valid reports whether t is a table entry.
func (t Target) Valid() bool {
	return t >= TargetE2 && t <= TargetE4
}

// Frequency returns the target frequency in Hz, or 0 for an invalid target.
func (t Target) Frequency() float64 {
	if !t.Valid() {
		return 0
	}

	return targetTable[t-1].hz
}

func (t Target) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Target(%d)", int(t))
	}

	return targetTable[t-1].key
}
