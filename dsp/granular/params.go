package granular

import "github.com/cwbudde/algo-ambient/dsp/core"

// PitchMode selects how grain playback rates are drawn.
type PitchMode int

const (
	// PitchHarmonic draws from a fixed table of consonant semitone offsets.
	// PitchSpread acts as a harmonic-complexity knob: it truncates the table
	// rather than detuning continuously.
	PitchHarmonic PitchMode = iota
	// PitchRandom draws a uniform offset in [-PitchSpread, +PitchSpread]
	// semitones.
	PitchRandom
)

// harmonicTable lists consonant semitone offsets in the order PitchSpread
// unlocks them.
var harmonicTable = []float64{0, 5, -5, 7, -7, 12, -12, 19, 24, -24, 4}

// Params is the complete user-facing parameter set.
// Out-of-range values are clamped on apply, never rejected.
type Params struct {
	GrainSizeMinMs float64 // [5,500]
	GrainSizeMaxMs float64 // [5,500]
	Density        float64 // grains per second, [0,100]; 0 disables spawning
	SprayMs        float64 // [0,2000] read-position scatter behind the write head
	JitterMs       float64 // [0,500] symmetric read-position jitter
	Probability    float64 // [0,1] chance a spawn attempt produces a grain
	PitchMode      PitchMode
	PitchSpread    float64 // semitones, [0,24]
	StereoSpread   float64 // [0,1]
	Feedback       float64 // [0,0.35] wet re-injection into the buffer
	WetMix         float64 // [0,1]
}

// DefaultParams returns a moderate shimmer texture.
func DefaultParams() Params {
	return Params{
		GrainSizeMinMs: 60,
		GrainSizeMaxMs: 180,
		Density:        12,
		SprayMs:        250,
		JitterMs:       20,
		Probability:    0.8,
		PitchMode:      PitchHarmonic,
		PitchSpread:    12,
		StereoSpread:   0.7,
		Feedback:       0.15,
		WetMix:         1.0,
	}
}

func (p Params) clamped() Params {
	p.GrainSizeMinMs = core.Clamp(p.GrainSizeMinMs, 5, 500)
	p.GrainSizeMaxMs = core.Clamp(p.GrainSizeMaxMs, 5, 500)
	if p.GrainSizeMaxMs < p.GrainSizeMinMs {
		p.GrainSizeMaxMs = p.GrainSizeMinMs
	}

	p.Density = core.Clamp(p.Density, 0, 100)
	p.SprayMs = core.Clamp(p.SprayMs, 0, 2000)
	p.JitterMs = core.Clamp(p.JitterMs, 0, 500)
	p.Probability = core.Clamp(p.Probability, 0, 1)

	if p.PitchMode != PitchRandom {
		p.PitchMode = PitchHarmonic
	}
	p.PitchSpread = core.Clamp(p.PitchSpread, 0, 24)
	p.StereoSpread = core.Clamp(p.StereoSpread, 0, 1)
	p.Feedback = core.Clamp(p.Feedback, 0, 0.35)
	p.WetMix = core.Clamp(p.WetMix, 0, 1)

	return p
}
