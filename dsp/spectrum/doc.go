// Package spectrum computes one-sided power spectra of generated waveforms.
//
// Transforms are delegated to algo-fft; the input is windowed, zero-padded to
// the next power of two and the non-negative frequency bins are kept.
package spectrum
