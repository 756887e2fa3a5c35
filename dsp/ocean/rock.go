package ocean

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/internal/fastmath"
	"github.com/cwbudde/algo-ambient/dsp/rng"
)

const (
	rockPoolSize     = 12
	rockModeCount    = 4
	rockImpulseMs    = 10.0
	rockImpulseSlope = 6.0
	modeRatioJitter  = 0.02
)

// Higher partials sit close to, but not on, harmonic positions.
var rockModeRatios = [rockModeCount]float64{1.00, 1.30, 1.52, 2.27}

// Resonance loosens toward the upper modes.
var rockModeQFalloff = [rockModeCount]float64{1.0, 0.75, 0.55, 0.40}

// svfMode is one bandpass section of a voice, a TPT state variable
// filter reduced to its band output.
type svfMode struct {
	g, k     float64
	ic1, ic2 float64
	gain     float64
}

func (m *svfMode) set(freq, q, gain, sampleRate float64) {
	nyquist := sampleRate * 0.49
	if freq > nyquist {
		freq = nyquist
	}
	m.g = math.Tan(math.Pi * freq / sampleRate)
	m.k = 1 / q
	m.gain = gain
	m.ic1 = 0
	m.ic2 = 0
}

func (m *svfMode) process(x float64) float64 {
	v1 := (m.ic1 + m.g*(x-m.ic2)) / (1 + m.g*(m.g+m.k))
	v2 := m.ic2 + m.g*v1
	m.ic1 = 2*v1 - m.ic1
	m.ic2 = 2*v2 - m.ic2
	return v1 * m.k * m.gain
}

// rockVoice is one pebble impact: a short noise burst exciting four
// bandpass resonators under an exponential decay.
type rockVoice struct {
	active       bool
	phase        float64
	phaseStep    float64
	impulsePhase float64
	impulseStep  float64
	decayRate    float64
	amp          float64
	gainL, gainR float64
	modes        [rockModeCount]svfMode
}

func (v *rockVoice) start(p Params, r *rng.RNG, sampleRate float64) {
	size := r.Range(p.RockSizeMin, p.RockSizeMax)

	// Small rocks ring higher and die faster.
	freq := p.RockFreqMinHz + (p.RockFreqMaxHz-p.RockFreqMinHz)*(1-size)
	decayMs := p.RockDecayMinMs + (p.RockDecayMaxMs-p.RockDecayMinMs)*size

	v.active = true
	v.phase = 0
	v.phaseStep = 1000 / (decayMs * sampleRate)
	v.impulsePhase = 0
	v.impulseStep = 1000 / (rockImpulseMs * sampleRate)
	v.decayRate = 3 + (1-size)*6
	v.amp = 0.4 + 0.6*size

	pan := r.Bipolar() * p.PanSpread
	angle := (pan + 1) * math.Pi / 4
	v.gainL = math.Cos(angle)
	v.gainR = math.Sin(angle)

	for i := range v.modes {
		jitter := 1 + r.Bipolar()*modeRatioJitter
		modeFreq := freq * rockModeRatios[i] * jitter
		q := p.RockQ * (0.5 + size) * rockModeQFalloff[i]
		if q < 1 {
			q = 1
		}
		gain := math.Pow(0.3+0.7*p.Brightness, float64(i))
		v.modes[i].set(modeFreq, q, gain, sampleRate)
	}
}

func (v *rockVoice) process(r *rng.RNG) float64 {
	exc := 0.0
	if v.impulsePhase < 1 {
		exc = r.Bipolar() * fastmath.Exp(-v.impulsePhase*rockImpulseSlope)
		v.impulsePhase += v.impulseStep
	}

	sum := 0.0
	for i := range v.modes {
		sum += v.modes[i].process(exc)
	}

	out := sum * fastmath.Exp(-v.phase*v.decayRate) * v.amp

	v.phase += v.phaseStep
	if v.phase >= 1 {
		v.active = false
	}
	return out
}

// allocRockVoice returns a free slot, stealing the voice furthest
// through its decay when the pool is saturated.
func allocRockVoice(pool []rockVoice) *rockVoice {
	var steal *rockVoice
	for i := range pool {
		v := &pool[i]
		if !v.active {
			return v
		}
		if steal == nil || v.phase > steal.phase {
			steal = v
		}
	}
	return steal
}
