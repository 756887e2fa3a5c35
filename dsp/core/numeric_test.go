package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestSoftClip(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{name: "passthrough", value: 0.5, expected: 0.5},
		{name: "negative passthrough", value: -0.9, expected: -0.9},
		{name: "unity", value: 1, expected: 1},
		{name: "above", value: 3, expected: 0.75},
		{name: "below", value: -3, expected: -0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SoftClip(tt.value)
			if !NearlyEqual(got, tt.expected, 1e-12) {
				t.Fatalf("SoftClip(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestSoftClipBounded(t *testing.T) {
	for _, x := range []float64{10, 1e6, 1e12, -10, -1e6, -1e12} {
		got := SoftClip(x)
		if math.Abs(got) >= 1 {
			t.Fatalf("SoftClip(%v) = %v, want |y| < 1", x, got)
		}
	}
}

func TestMsToSamples(t *testing.T) {
	if got := MsToSamples(100, 48000); got != 4800 {
		t.Fatalf("MsToSamples(100, 48000) = %v, want 4800", got)
	}
	if got := MsToSamples(37.3, 44100); !NearlyEqual(got, 1644.93, 1e-9) {
		t.Fatalf("MsToSamples(37.3, 44100) = %v, want 1644.93", got)
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}
