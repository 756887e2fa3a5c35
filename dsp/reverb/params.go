package reverb

import "github.com/cwbudde/algo-ambient/dsp/core"

// Type selects a reverb character preset.
type Type int

const (
	TypePlate Type = iota
	TypeHall
	TypeCathedral
	TypeDarkHall
)

// Quality selects a performance tier. The recurrence is identical across
// tiers; only the network density and interpolation order change.
type Quality int

const (
	// QualityUltra runs 8 FDN lines with cubic delay interpolation.
	QualityUltra Quality = iota
	// QualityBalanced runs 8 FDN lines with linear delay interpolation.
	QualityBalanced
	// QualityLite runs 4 FDN lines with linear delay interpolation.
	QualityLite
)

// preset holds the per-type base character the user parameters scale.
type preset struct {
	baseDecay float64
	damping   float64
	diffusion float64
	size      float64
	modDepth  float64
}

var presets = map[Type]preset{
	TypePlate:     {baseDecay: 0.88, damping: 0.40, diffusion: 0.80, size: 0.80, modDepth: 0.30},
	TypeHall:      {baseDecay: 0.93, damping: 0.30, diffusion: 0.70, size: 1.00, modDepth: 0.50},
	TypeCathedral: {baseDecay: 0.96, damping: 0.20, diffusion: 0.75, size: 1.40, modDepth: 0.70},
	TypeDarkHall:  {baseDecay: 0.94, damping: 0.60, diffusion: 0.70, size: 1.10, modDepth: 0.40},
}

// Params is the complete user-facing parameter set.
//
// Values outside the documented ranges are clamped on apply, never rejected;
// the audio thread must keep running whatever the host sends.
type Params struct {
	Type       Type
	Decay      float64 // [0,1] scales preset decay toward the stability limit
	Size       float64 // [0.5,3] scales all FDN delay lengths
	Modulation float64 // [0,1] scales LFO delay-time wobble
	PredelayMs float64 // [0,300]
	Damping    float64 // [0,1] high-frequency loss in the feedback loop
	Width      float64 // [0,1] stereo width via mid/side
	Diffusion  float64 // [0,1] scales all diffuser feedback coefficients
}

// DefaultParams returns a medium hall.
func DefaultParams() Params {
	return Params{
		Type:       TypeHall,
		Decay:      0.5,
		Size:       1.0,
		Modulation: 0.3,
		PredelayMs: 20,
		Damping:    0.3,
		Width:      1.0,
		Diffusion:  0.7,
	}
}

// clamped returns a copy with every field limited to its documented range.
func (p Params) clamped() Params {
	if _, ok := presets[p.Type]; !ok {
		p.Type = TypeHall
	}

	p.Decay = core.Clamp(p.Decay, 0, 1)
	p.Size = core.Clamp(p.Size, 0.5, 3.0)
	p.Modulation = core.Clamp(p.Modulation, 0, 1)
	p.PredelayMs = core.Clamp(p.PredelayMs, 0, 300)
	p.Damping = core.Clamp(p.Damping, 0, 1)
	p.Width = core.Clamp(p.Width, 0, 1)
	p.Diffusion = core.Clamp(p.Diffusion, 0, 1)

	return p
}
