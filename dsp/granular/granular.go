// Package granular provides the live-input granular texture engine.
//
// Input is written continuously into a stereo circular buffer; grains are
// short Hann-windowed fragments read back from randomized positions behind
// the write head, pitch-shifted by playback rate, panned, and overlap-added
// into a fully wet output. A bounded amount of the wet sum is re-injected
// into the buffer for denser textures.
package granular

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/internal/fastmath"
	"github.com/cwbudde/algo-ambient/dsp/rng"
	"github.com/cwbudde/algo-ambient/dsp/window"
)

const (
	// poolSize bounds polyphony; spawning beyond it drops grains silently.
	poolSize = 64

	// bufferSeconds of input history the grains can reach back into.
	bufferSeconds = 4.0

	defaultSeed = 1
)

// grain is one pooled voice. Spawning initializes an inactive slot; no
// allocation happens during playback.
type grain struct {
	active  bool
	pos     float64 // read head in buffer samples
	elapsed int
	length  int
	rate    float64
	gainL   float64
	gainR   float64
}

// Granulator is the stereo granular engine.
// Not safe for concurrent use; one goroutine (the audio thread) owns it.
type Granulator struct {
	sampleRate float64
	params     Params
	seed       uint32

	ringL []float64
	ringR []float64
	write int

	grains [poolSize]grain

	spawnInterval   int
	spawnCountdown  int
	grainMinSamples int
	grainMaxSamples int
	spraySamples    float64
	jitterSamples   float64
	harmonicEntries int
	spawnedTotal    uint64

	hann *window.Table
	rand *rng.RNG
}

// New creates a granulator with default parameters.
// The input buffer is allocated once, sized by bufferSeconds.
func New(sampleRate float64) (*Granulator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("granular sample rate must be > 0: %f", sampleRate)
	}

	g := &Granulator{
		sampleRate: sampleRate,
		params:     DefaultParams(),
		seed:       defaultSeed,
		hann:       window.NewHannTable(),
		rand:       rng.New(defaultSeed),
	}

	ringLen := int(math.Ceil(bufferSeconds * sampleRate))
	g.ringL = make([]float64, ringLen)
	g.ringR = make([]float64, ringLen)

	g.applyDerived()
	g.Reset(defaultSeed)

	return g, nil
}

// SampleRate returns the sample rate in Hz.
func (g *Granulator) SampleRate() float64 { return g.sampleRate }

// Params returns the current (clamped) parameter set.
func (g *Granulator) Params() Params { return g.params }

// SpawnedTotal returns the number of grains spawned since the last reset.
func (g *Granulator) SpawnedTotal() uint64 { return g.spawnedTotal }

// ActiveGrains returns the number of currently sounding grains.
func (g *Granulator) ActiveGrains() int {
	n := 0
	for i := range g.grains {
		if g.grains[i].active {
			n++
		}
	}
	return n
}

// SetSampleRate re-derives all time-based state for a new sample rate.
// The input buffer is reallocated; history is cleared.
func (g *Granulator) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("granular sample rate must be > 0: %f", sampleRate)
	}

	g.sampleRate = sampleRate

	ringLen := int(math.Ceil(bufferSeconds * sampleRate))
	g.ringL = make([]float64, ringLen)
	g.ringR = make([]float64, ringLen)

	g.applyDerived()
	g.Reset(g.seed)

	return nil
}

// SetParams applies a complete parameter snapshot, recomputing all derived
// scheduling values. Out-of-range fields are clamped.
func (g *Granulator) SetParams(p Params) {
	g.params = p.clamped()
	g.applyDerived()
}

func (g *Granulator) applyDerived() {
	p := g.params

	if p.Density > 0 {
		g.spawnInterval = int(math.Round(g.sampleRate / p.Density))
		if g.spawnInterval < 1 {
			g.spawnInterval = 1
		}
	} else {
		g.spawnInterval = 0
	}

	g.grainMinSamples = int(math.Round(core.MsToSamples(p.GrainSizeMinMs, g.sampleRate)))
	g.grainMaxSamples = int(math.Round(core.MsToSamples(p.GrainSizeMaxMs, g.sampleRate)))
	if g.grainMinSamples < 2 {
		g.grainMinSamples = 2
	}
	if g.grainMaxSamples < g.grainMinSamples {
		g.grainMaxSamples = g.grainMinSamples
	}

	g.spraySamples = core.MsToSamples(p.SprayMs, g.sampleRate)
	g.jitterSamples = core.MsToSamples(p.JitterMs, g.sampleRate)

	entries := int(math.Round(p.PitchSpread / 12.0 * float64(len(harmonicTable))))
	if entries < 1 {
		entries = 1
	}
	if entries > len(harmonicTable) {
		entries = len(harmonicTable)
	}
	g.harmonicEntries = entries
}

// Reset clears the buffer and grain pool and reseeds the RNG. Calling it
// twice with the same seed is equivalent to calling it once.
func (g *Granulator) Reset(seed uint32) {
	core.Zero(g.ringL)
	core.Zero(g.ringR)
	g.write = 0
	g.spawnCountdown = 0
	g.spawnedTotal = 0

	for i := range g.grains {
		g.grains[i] = grain{}
	}

	g.seed = seed
	g.rand.Reseed(seed)
}

// ProcessBlock consumes a stereo input block and produces the wet grain sum.
// Output is wet-only; dry/wet mixing happens upstream.
func (g *Granulator) ProcessBlock(inL, inR, outL, outR []float64) {
	n := len(outL)
	if len(outR) < n {
		n = len(outR)
	}
	if len(inL) < n {
		n = len(inL)
	}
	if len(inR) < n {
		n = len(inR)
	}

	for i := 0; i < n; i++ {
		outL[i], outR[i] = g.processSample(inL[i], inR[i])
	}
}

func (g *Granulator) processSample(inL, inR float64) (float64, float64) {
	g.ringL[g.write] = inL
	g.ringR[g.write] = inR

	if g.spawnInterval > 0 {
		if g.spawnCountdown <= 0 {
			g.trySpawn()
			g.spawnCountdown = g.spawnInterval
		}
		g.spawnCountdown--
	}

	wetL := 0.0
	wetR := 0.0

	for i := range g.grains {
		gr := &g.grains[i]
		if !gr.active {
			continue
		}

		env := g.hann.At(float64(gr.elapsed) / float64(gr.length))
		sl, sr := g.readLinear(gr.pos)
		wetL += sl * env * gr.gainL
		wetR += sr * env * gr.gainR

		gr.pos += gr.rate
		ringLen := float64(len(g.ringL))
		if gr.pos >= ringLen {
			gr.pos -= ringLen
		}

		gr.elapsed++
		if gr.elapsed >= gr.length {
			gr.active = false
		}
	}

	// Bounded wet re-injection keeps feedback textures from running away.
	fb := g.params.Feedback
	if fb > 0 {
		g.ringL[g.write] += math.Tanh(wetL * fb)
		g.ringR[g.write] += math.Tanh(wetR * fb)
	}

	g.write++
	if g.write >= len(g.ringL) {
		g.write = 0
	}

	mix := g.params.WetMix
	return wetL * mix, wetR * mix
}

// trySpawn performs one spawn attempt: a probability draw, then a linear
// scan for a free pool slot. Both failure modes drop the grain silently.
func (g *Granulator) trySpawn() {
	if g.rand.Float64() > g.params.Probability {
		return
	}

	slot := -1
	for i := range g.grains {
		if !g.grains[i].active {
			slot = i
			break
		}
	}
	if slot < 0 {
		return
	}

	length := g.grainMinSamples
	if g.grainMaxSamples > g.grainMinSamples {
		length += int(g.rand.Float64() * float64(g.grainMaxSamples-g.grainMinSamples+1))
	}

	offset := g.spraySamples + g.rand.Float64()*g.spraySamples + g.rand.Bipolar()*g.jitterSamples
	maxOffset := float64(len(g.ringL) - 2)
	offset = core.Clamp(offset, 0, maxOffset)

	pos := float64(g.write) - offset
	ringLen := float64(len(g.ringL))
	for pos < 0 {
		pos += ringLen
	}

	semitones := 0.0
	if g.params.PitchMode == PitchHarmonic {
		semitones = harmonicTable[int(g.rand.Float64()*float64(g.harmonicEntries))%g.harmonicEntries]
	} else if g.params.PitchSpread > 0 {
		semitones = g.rand.Bipolar() * g.params.PitchSpread
	}
	rate := fastmath.Pow2(semitones / 12.0)

	pan := g.rand.Bipolar() * g.params.StereoSpread
	angle := (pan + 1) * math.Pi / 4
	gainL := math.Cos(angle)
	gainR := math.Sin(angle)

	g.grains[slot] = grain{
		active: true,
		pos:    pos,
		length: length,
		rate:   rate,
		gainL:  gainL,
		gainR:  gainR,
	}
	g.spawnedTotal++
}

func (g *Granulator) readLinear(pos float64) (float64, float64) {
	i0 := int(pos)
	frac := pos - float64(i0)

	i1 := i0 + 1
	if i1 >= len(g.ringL) {
		i1 = 0
	}

	l := g.ringL[i0] + (g.ringL[i1]-g.ringL[i0])*frac
	r := g.ringR[i0] + (g.ringR[i1]-g.ringR[i0])*frac
	return l, r
}
