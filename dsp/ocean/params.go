package ocean

import "github.com/cwbudde/algo-ambient/dsp/core"

// Params is the complete user-facing parameter set.
// Out-of-range values are clamped on apply, never rejected.
type Params struct {
	// Wave scheduling. Generator 2 adds a random offset so the two swells
	// never lock step.
	IntervalMinMs    float64 // [500,60000]
	IntervalMaxMs    float64 // [500,60000]
	Wave2OffsetMinMs float64 // [0,30000]
	Wave2OffsetMaxMs float64 // [0,30000]

	// Per-wave draws.
	DurationMinMs float64 // [500,30000]
	DurationMaxMs float64 // [500,30000]
	AmplitudeMin  float64 // [0,1]
	AmplitudeMax  float64 // [0,1]
	PanSpread     float64 // [0,1]
	FoamMin       float64 // [0,1]
	FoamMax       float64 // [0,1]
	DepthMin      float64 // [0,1]
	DepthMax      float64 // [0,1]

	// Rock/pebble transient layer.
	Pebbles        float64 // [0,1] spawn amount; 0 disables the layer
	RockSizeMin    float64 // [0,1]
	RockSizeMax    float64 // [0,1]
	RockFreqMinHz  float64 // [50,8000]
	RockFreqMaxHz  float64 // [50,8000]
	RockQ          float64 // [1,60] base resonance
	RockDecayMinMs float64 // [20,2000]
	RockDecayMaxMs float64 // [20,2000]
	Brightness     float64 // [0,1] per-mode gain rolloff

	Intensity float64 // [0,1] master level before the soft clip
}

// DefaultParams returns a medium-energy shoreline.
func DefaultParams() Params {
	return Params{
		IntervalMinMs:    4000,
		IntervalMaxMs:    9000,
		Wave2OffsetMinMs: 1500,
		Wave2OffsetMaxMs: 4000,
		DurationMinMs:    3000,
		DurationMaxMs:    8000,
		AmplitudeMin:     0.5,
		AmplitudeMax:     1.0,
		PanSpread:        0.6,
		FoamMin:          0.3,
		FoamMax:          0.8,
		DepthMin:         0.2,
		DepthMax:         0.7,
		Pebbles:          0.5,
		RockSizeMin:      0.2,
		RockSizeMax:      0.9,
		RockFreqMinHz:    400,
		RockFreqMaxHz:    2400,
		RockQ:            18,
		RockDecayMinMs:   80,
		RockDecayMaxMs:   400,
		Brightness:       0.6,
		Intensity:        0.8,
	}
}

func (p Params) clamped() Params {
	p.IntervalMinMs = core.Clamp(p.IntervalMinMs, 500, 60000)
	p.IntervalMaxMs = core.Clamp(p.IntervalMaxMs, 500, 60000)
	if p.IntervalMaxMs < p.IntervalMinMs {
		p.IntervalMaxMs = p.IntervalMinMs
	}

	p.Wave2OffsetMinMs = core.Clamp(p.Wave2OffsetMinMs, 0, 30000)
	p.Wave2OffsetMaxMs = core.Clamp(p.Wave2OffsetMaxMs, 0, 30000)
	if p.Wave2OffsetMaxMs < p.Wave2OffsetMinMs {
		p.Wave2OffsetMaxMs = p.Wave2OffsetMinMs
	}

	p.DurationMinMs = core.Clamp(p.DurationMinMs, 500, 30000)
	p.DurationMaxMs = core.Clamp(p.DurationMaxMs, 500, 30000)
	if p.DurationMaxMs < p.DurationMinMs {
		p.DurationMaxMs = p.DurationMinMs
	}

	p.AmplitudeMin = core.Clamp(p.AmplitudeMin, 0, 1)
	p.AmplitudeMax = core.Clamp(p.AmplitudeMax, 0, 1)
	if p.AmplitudeMax < p.AmplitudeMin {
		p.AmplitudeMax = p.AmplitudeMin
	}

	p.PanSpread = core.Clamp(p.PanSpread, 0, 1)
	p.FoamMin = core.Clamp(p.FoamMin, 0, 1)
	p.FoamMax = core.Clamp(p.FoamMax, 0, 1)
	if p.FoamMax < p.FoamMin {
		p.FoamMax = p.FoamMin
	}

	p.DepthMin = core.Clamp(p.DepthMin, 0, 1)
	p.DepthMax = core.Clamp(p.DepthMax, 0, 1)
	if p.DepthMax < p.DepthMin {
		p.DepthMax = p.DepthMin
	}

	p.Pebbles = core.Clamp(p.Pebbles, 0, 1)
	p.RockSizeMin = core.Clamp(p.RockSizeMin, 0, 1)
	p.RockSizeMax = core.Clamp(p.RockSizeMax, 0, 1)
	if p.RockSizeMax < p.RockSizeMin {
		p.RockSizeMax = p.RockSizeMin
	}

	p.RockFreqMinHz = core.Clamp(p.RockFreqMinHz, 50, 8000)
	p.RockFreqMaxHz = core.Clamp(p.RockFreqMaxHz, 50, 8000)
	if p.RockFreqMaxHz < p.RockFreqMinHz {
		p.RockFreqMaxHz = p.RockFreqMinHz
	}

	p.RockQ = core.Clamp(p.RockQ, 1, 60)
	p.RockDecayMinMs = core.Clamp(p.RockDecayMinMs, 20, 2000)
	p.RockDecayMaxMs = core.Clamp(p.RockDecayMaxMs, 20, 2000)
	if p.RockDecayMaxMs < p.RockDecayMinMs {
		p.RockDecayMaxMs = p.RockDecayMinMs
	}

	p.Brightness = core.Clamp(p.Brightness, 0, 1)
	p.Intensity = core.Clamp(p.Intensity, 0, 1)

	return p
}
