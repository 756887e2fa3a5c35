// Package ocean synthesizes a shoreline from scratch: two overlapping
// wave generators built on filtered noise, a low rumble layer, and a
// pool of resonant pebble transients that follow each wave's crash.
// No input signal is consumed; the engine is a pure generator driven
// by a single seeded random stream, so identical seeds reproduce
// identical output.
package ocean

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/rng"
)

const (
	defaultSeed = 1

	waveNoiseCoeff  = 0.08
	foamNoiseCoeff  = 0.35
	rumbleCoeff     = 0.005
	masterLPCoeff   = 0.35
	dcBlockCoeff    = 0.9975
	foamMixGain     = 0.7
	rumbleMixGain   = 0.5
	rockMixGain     = 0.6
	rockSpawnConst1 = 0.012
	rockSpawnConst2 = 0.010
)

type wave struct {
	active    bool
	phase     float64
	phaseStep float64
	amplitude float64
	pan       float64
	foam      float64
	depth     float64
}

// waveGenerator schedules and renders one stream of swells. Two run
// side by side with independent timing so the shoreline never settles
// into a pulse.
type waveGenerator struct {
	wave         wave
	sinceLast    int
	nextInterval int
	lpfState     float64
	foamState    float64
	spawnConst   float64
	offsetExtra  bool
}

// Ocean is the procedural surf generator.
type Ocean struct {
	sampleRate float64
	params     Params
	rand       *rng.RNG
	seed       uint32

	gens  [2]waveGenerator
	rocks [rockPoolSize]rockVoice

	rumbleState float64
	masterL     float64
	masterR     float64
	dcPrevInL   float64
	dcPrevOutL  float64
	dcPrevInR   float64
	dcPrevOutR  float64

	waveStarts atomic.Uint64
}

// New creates an ocean generator at the given sample rate.
func New(sampleRate float64) (*Ocean, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	o := &Ocean{
		sampleRate: sampleRate,
		params:     DefaultParams(),
		rand:       rng.New(defaultSeed),
	}
	o.gens[0].spawnConst = rockSpawnConst1
	o.gens[1].spawnConst = rockSpawnConst2
	o.gens[1].offsetExtra = true
	o.Reset(defaultSeed)
	return o, nil
}

// SetSampleRate reconfigures the generator and resets all state with
// the most recent seed.
func (o *Ocean) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	o.sampleRate = sampleRate
	o.Reset(o.seed)
	return nil
}

// SetParams installs a new parameter set. Values outside their
// documented ranges are clamped. Waves and rocks already in flight
// keep the draws they were born with.
func (o *Ocean) SetParams(p Params) {
	o.params = p.clamped()
}

// Params returns the active (clamped) parameter set.
func (o *Ocean) Params() Params { return o.params }

// Reset reseeds the random stream and silences all in-flight waves,
// rocks, and filter state. Two resets with the same seed produce
// identical output streams.
func (o *Ocean) Reset(seed uint32) {
	o.seed = seed
	o.rand.Reseed(seed)

	for i := range o.gens {
		g := &o.gens[i]
		g.wave = wave{}
		g.sinceLast = 0
		g.lpfState = 0
		g.foamState = 0
		g.nextInterval = o.drawInterval(g)
	}
	// First swell arrives early rather than after a full interval.
	o.gens[0].nextInterval /= 4

	for i := range o.rocks {
		o.rocks[i] = rockVoice{}
	}

	o.rumbleState = 0
	o.masterL = 0
	o.masterR = 0
	o.dcPrevInL = 0
	o.dcPrevOutL = 0
	o.dcPrevInR = 0
	o.dcPrevOutR = 0
	o.waveStarts.Store(0)
}

// WaveStarts reports how many swells have started since the last
// reset. Safe to read from another goroutine.
func (o *Ocean) WaveStarts() uint64 { return o.waveStarts.Load() }

func (o *Ocean) drawInterval(g *waveGenerator) int {
	ms := o.rand.Range(o.params.IntervalMinMs, o.params.IntervalMaxMs)
	if g.offsetExtra {
		ms += o.rand.Range(o.params.Wave2OffsetMinMs, o.params.Wave2OffsetMaxMs)
	}
	return int(core.MsToSamples(ms, o.sampleRate))
}

func (o *Ocean) startWave(g *waveGenerator) {
	p := o.params
	durationMs := o.rand.Range(p.DurationMinMs, p.DurationMaxMs)

	g.wave = wave{
		active:    true,
		phase:     0,
		phaseStep: 1000 / (durationMs * o.sampleRate),
		amplitude: o.rand.Range(p.AmplitudeMin, p.AmplitudeMax),
		pan:       o.rand.Bipolar() * p.PanSpread,
		foam:      o.rand.Range(p.FoamMin, p.FoamMax),
		depth:     o.rand.Range(p.DepthMin, p.DepthMax),
	}
	g.sinceLast = 0
	g.nextInterval = o.drawInterval(g)
	o.waveStarts.Add(1)
}

func (o *Ocean) spawnRock() {
	v := allocRockVoice(o.rocks[:])
	v.start(o.params, o.rand, o.sampleRate)
}

// ProcessBlock renders len(outL) samples of stereo surf. Both slices
// must be the same length; previous contents are overwritten.
func (o *Ocean) ProcessBlock(outL, outR []float64) {
	n := len(outL)
	if len(outR) < n {
		n = len(outR)
	}
	for i := 0; i < n; i++ {
		outL[i], outR[i] = o.processSample()
	}
}

func (o *Ocean) processSample() (float64, float64) {
	var l, r, rumbleLevel float64

	for gi := range o.gens {
		g := &o.gens[gi]
		if !g.wave.active {
			g.sinceLast++
			if g.sinceLast >= g.nextInterval {
				o.startWave(g)
			}
			continue
		}

		w := &g.wave
		env := waveEnvelope(w.phase)

		g.lpfState += (o.rand.Bipolar() - g.lpfState) * waveNoiseCoeff
		body := g.lpfState * env * w.amplitude

		g.foamState += (o.rand.Bipolar() - g.foamState) * foamNoiseCoeff
		foam := g.foamState * foamEnvelope(w.phase) * w.foam

		s := body + foam*foamMixGain
		angle := (w.pan + 1) * math.Pi / 4
		l += s * math.Cos(angle)
		r += s * math.Sin(angle)

		rumbleLevel += w.depth * env

		if o.params.Pebbles > 0 {
			prob := o.params.Pebbles * rockDensityEnvelope(w.phase) * g.spawnConst
			if prob > 0 && o.rand.Float64() < prob {
				o.spawnRock()
			}
		}

		w.phase += w.phaseStep
		if w.phase >= 1 {
			w.active = false
			g.sinceLast = 0
		}
	}

	o.rumbleState += (o.rand.Bipolar() - o.rumbleState) * rumbleCoeff
	rumble := o.rumbleState * core.Clamp(rumbleLevel, 0, 1) * rumbleMixGain
	l += rumble
	r += rumble

	for i := range o.rocks {
		v := &o.rocks[i]
		if !v.active {
			continue
		}
		s := v.process(o.rand) * rockMixGain
		l += s * v.gainL
		r += s * v.gainR
	}

	o.masterL += (l - o.masterL) * masterLPCoeff
	o.masterR += (r - o.masterR) * masterLPCoeff

	outL := o.masterL - o.dcPrevInL + dcBlockCoeff*o.dcPrevOutL
	o.dcPrevInL = o.masterL
	o.dcPrevOutL = outL
	outR := o.masterR - o.dcPrevInR + dcBlockCoeff*o.dcPrevOutR
	o.dcPrevInR = o.masterR
	o.dcPrevOutR = outR

	gain := o.params.Intensity
	return math.Tanh(outL * gain), math.Tanh(outR * gain)
}
