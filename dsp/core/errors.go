package core

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter reports a precondition failure on caller input:
	// non-positive duration, sample count or bit count, non-finite values.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericEdge reports an input that would be used as a zero divisor.
	ErrNumericEdge = errors.New("numeric edge")
)

// RequireFinite returns an ErrInvalidParameter error if v is NaN or Inf.
func RequireFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be finite: %f: %w", name, v, ErrInvalidParameter)
	}
	return nil
}

// RequireNonNegative returns an ErrInvalidParameter error unless v is finite and >= 0.
func RequireNonNegative(name string, v float64) error {
	if err := RequireFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%s must be >= 0: %f: %w", name, v, ErrInvalidParameter)
	}
	return nil
}

// RequirePositive returns an ErrInvalidParameter error unless v is finite and > 0.
func RequirePositive(name string, v float64) error {
	if err := RequireFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("%s must be > 0: %f: %w", name, v, ErrInvalidParameter)
	}
	return nil
}
