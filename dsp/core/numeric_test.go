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
	if !NearlyEqual(1e6, 1e6+1e-7, 0) {
		t.Fatal("expected relative comparison for large magnitudes")
	}
}

func TestPowerToDB(t *testing.T) {
	if got := PowerToDB(100); !NearlyEqual(got, 20, 1e-12) {
		t.Fatalf("PowerToDB(100) = %v, want 20", got)
	}
	if !math.IsInf(PowerToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(PowerToDB(-1)) {
		t.Fatal("expected NaN for negative power")
	}
}

func TestIsBinary(t *testing.T) {
	for _, v := range []float64{0, 1} {
		if !IsBinary(v) {
			t.Fatalf("IsBinary(%v) = false", v)
		}
	}
	for _, v := range []float64{-1, 0.5, 2, math.NaN()} {
		if IsBinary(v) {
			t.Fatalf("IsBinary(%v) = true", v)
		}
	}
	if !IsBinary(uint8(1)) || IsBinary(uint8(2)) {
		t.Fatal("IsBinary(uint8) mismatch")
	}
}
