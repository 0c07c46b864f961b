package testutil

import "testing"

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if d != 1 {
		t.Fatalf("MaxAbsDiff() = %v, want 1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestRequireSliceEqualSignedZero(t *testing.T) {
	negZero := 0.0
	negZero = -negZero
	RequireSliceEqual(t, []float64{0, 1}, []float64{negZero, 1})
}
