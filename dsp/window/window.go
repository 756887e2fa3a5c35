// Package window provides window functions for grain envelopes and
// spectral analysis.
//
// The granular engine evaluates a Hann envelope for every active grain on
// every sample, so a precomputed [Table] with linear-interpolated lookup is
// provided alongside exact coefficient generation.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// Generate returns window coefficients of the requested length.
// Coefficients are symmetric: first and last samples taper to the window's
// edge value (0 for Hann and Blackman).
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	for i := range out {
		x := float64(i) / float64(length-1)
		out[i] = evalWindow(t, x)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf))
	vecmath.MulBlockInPlace(buf, coeffs)
}

// Hann returns Hann window coefficients.
func Hann(size int) ([]float64, error) {
	return Generate(TypeHann, size), validateLength(size)
}

// Hamming returns Hamming window coefficients.
func Hamming(size int) ([]float64, error) {
	return Generate(TypeHamming, size), validateLength(size)
}

// Blackman returns Blackman window coefficients.
func Blackman(size int) ([]float64, error) {
	return Generate(TypeBlackman, size), validateLength(size)
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 * (1 - math.Cos(2*math.Pi*x))
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}
