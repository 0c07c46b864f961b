package signal

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-modulation/dsp/core"
)

// BitsPerChar is the width of one encoded character.
const BitsPerChar = 8

// TextToBits encodes every character of message as its 8-bit code point,
// most significant bit first.
//
// Characters above U+00FF do not fit the field and are rejected, as is
// invalid UTF-8 (which decodes to U+FFFD). An empty message yields an empty
// slice.
func TextToBits(message string) ([]uint8, error) {
	bits := make([]uint8, 0, len(message)*BitsPerChar)
	for offset, r := range message {
		if r > 0xFF {
			return nil, fmt.Errorf("character %q at byte %d exceeds 8 bits (U+%04X): %w",
				r, offset, r, core.ErrInvalidParameter)
		}
		for shift := BitsPerChar - 1; shift >= 0; shift-- {
			bits = append(bits, uint8(r>>shift)&1)
		}
	}
	return bits, nil
}

// BitString renders bits as a string of '0' and '1'.
func BitString(bits []uint8) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		if b == 0 {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}

// BitsToDigital spreads bits over samples points as a piecewise-constant
// 0/1 signal.
//
// Bit i covers indices [i*samples/len(bits), (i+1)*samples/len(bits)) with
// integer floor division, so the slices partition the output without gaps.
// When there are more bits than samples some bits get an empty slice.
func BitsToDigital(bits []uint8, samples int) ([]float64, error) {
	if len(bits) == 0 {
		return nil, fmt.Errorf("digital bits must not be empty: %w", core.ErrInvalidParameter)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("digital samples must be > 0: %d: %w", samples, core.ErrInvalidParameter)
	}

	out := make([]float64, samples)
	for i, b := range bits {
		if !core.IsBinary(b) {
			return nil, fmt.Errorf("bit %d must be 0 or 1: %d: %w", i, b, core.ErrInvalidParameter)
		}
		if b == 0 {
			continue
		}
		start, end := BitSpan(i, len(bits), samples)
		for j := start; j < end; j++ {
			out[j] = 1
		}
	}
	return out, nil
}

// BitSpan returns the sample index range [start, end) occupied by bit i.
func BitSpan(i, bitCount, samples int) (start, end int) {
	if bitCount <= 0 || i < 0 || i >= bitCount {
		return 0, 0
	}
	return i * samples / bitCount, (i + 1) * samples / bitCount
}
