// Package decay analyzes the energy decay of rendered impulse
// responses. It estimates reverberation time from the Schroeder
// backward integral and reports coarse spectral band energies, which
// together characterize how a reverb tail behaves without listening
// to it.
package decay

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ambient/dsp/window"
)

var (
	ErrEmptyResponse     = errors.New("decay: response is empty")
	ErrInvalidSampleRate = errors.New("decay: sample rate must be positive")
	ErrInvalidBands      = errors.New("decay: need at least two ascending band edges")
	ErrNoDecay           = errors.New("decay: insufficient decay for RT estimate")
)

// Analyzer computes decay metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer for responses rendered at sampleRate.
func NewAnalyzer(sampleRate float64) (*Analyzer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	return &Analyzer{SampleRate: sampleRate}, nil
}

// Curve returns the Schroeder backward integral of the squared
// response in dB, normalized so the curve starts at 0 dB. Values
// below the numeric floor are clamped to -200 dB.
func (a *Analyzer) Curve(response []float64) ([]float64, error) {
	if len(response) == 0 {
		return nil, ErrEmptyResponse
	}
	return a.schroeder(response), nil
}

func (a *Analyzer) schroeder(response []float64) []float64 {
	n := len(response)
	curve := make([]float64, n)

	var cum float64
	for i := n - 1; i >= 0; i-- {
		cum += response[i] * response[i]
		curve[i] = cum
	}

	total := curve[0]
	if total <= 0 {
		return curve
	}
	for i := range curve {
		ratio := curve[i] / total
		if ratio <= 0 {
			curve[i] = -200
		} else {
			curve[i] = 10 * math.Log10(ratio)
		}
	}
	return curve
}

// RT60 estimates the time for the tail to decay by 60 dB. The slope
// is fit on the -5..-35 dB stretch of the Schroeder curve and
// extrapolated; when the response is too short for that it falls back
// to the -5..-25 dB stretch.
func (a *Analyzer) RT60(response []float64) (float64, error) {
	if len(response) == 0 {
		return 0, ErrEmptyResponse
	}

	curve := a.schroeder(response)
	if rt := a.fitDecay(curve, -5, -35); rt > 0 {
		return rt, nil
	}
	if rt := a.fitDecay(curve, -5, -25); rt > 0 {
		return rt, nil
	}
	return 0, ErrNoDecay
}

// fitDecay runs a least-squares line through the curve between two dB
// marks and extrapolates the slope to -60 dB.
func (a *Analyzer) fitDecay(curve []float64, startDB, endDB float64) float64 {
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}
		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start+1 {
		return 0
	}

	// The backward integral of any truncated response sweeps to the
	// floor over its last samples; a crossing that late is truncation,
	// not decay.
	if end >= len(curve)-len(curve)/50 {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64
	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	n := float64(end - start + 1)
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (n*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	rt := -60.0 / (slope * a.SampleRate)
	if rt < 0 {
		return 0
	}
	return rt
}

// Peak returns the index and absolute value of the loudest sample.
func (a *Analyzer) Peak(response []float64) (int, float64) {
	idx, peak := 0, 0.0
	for i, v := range response {
		if av := math.Abs(v); av > peak {
			peak = av
			idx = i
		}
	}
	return idx, peak
}

// BandEnergy sums spectral power between consecutive band edges (Hz),
// returning one energy per band. The response is Blackman-windowed
// and zero-padded to the next power of two before the transform.
func (a *Analyzer) BandEnergy(response []float64, edgesHz []float64) ([]float64, error) {
	if len(response) == 0 {
		return nil, ErrEmptyResponse
	}
	if len(edgesHz) < 2 {
		return nil, ErrInvalidBands
	}
	for i := 1; i < len(edgesHz); i++ {
		if edgesHz[i] <= edgesHz[i-1] {
			return nil, ErrInvalidBands
		}
	}

	coeffs, err := window.Blackman(len(response))
	if err != nil {
		return nil, err
	}
	windowed, err := window.ApplyCoefficients(response, coeffs)
	if err != nil {
		return nil, err
	}

	fftSize := nextPowerOf2(len(windowed))
	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	power := make([]float64, half)
	vecmath.Power(power, re, im)

	binHz := a.SampleRate / float64(fftSize)
	bands := make([]float64, len(edgesHz)-1)
	for bin := 0; bin < half; bin++ {
		freq := float64(bin) * binHz
		for b := range bands {
			if freq >= edgesHz[b] && freq < edgesHz[b+1] {
				bands[b] += power[bin]
				break
			}
		}
	}
	return bands, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
