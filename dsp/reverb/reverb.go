package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/delay"
	"github.com/cwbudde/algo-ambient/dsp/diffuser"
	"github.com/cwbudde/algo-ambient/dsp/interp"
)

const (
	maxLines = 8

	// maxFeedbackGain bounds loop gain below unity so no parameter
	// combination can make the network diverge.
	maxFeedbackGain = 0.995

	// dampSmoothCoeff is the per-sample exponential approach rate of the
	// damping coefficient toward its target, slow enough to be inaudible.
	dampSmoothCoeff = 0.0001

	dcBlockCoeff = 0.9975

	inputInjectGain = 0.2

	// modDepthRatio is the delay-time wobble as a fraction of each line's
	// nominal length at full modulation.
	modDepthRatio = 0.015

	maxSizeScale    = 3.0
	maxPredelayMs   = 300.0
	delayHeadroom   = 8
	lfoCount        = 4
	rawMidBlendRaw  = 0.7
	rawMidBlendMid  = 0.3
	crossMixDirect  = 0.7
	crossMixOpposed = 0.3
)

// fdnBaseDelayMs are prime-ish line lengths; scaled by the size parameter.
var fdnBaseDelayMs = [maxLines]float64{37.3, 43.7, 53.1, 61.7, 71.3, 83.9, 97.1, 109.3}

// lfoRatesHz drive the slow triangle LFOs that wobble the line delays.
var lfoRatesHz = [lfoCount]float64{0.023, 0.031, 0.041, 0.053}

// Diffuser stage lengths in ms. The right channel runs slightly longer
// stages so the two channels decorrelate.
var (
	preDiffuserMs   = []float64{4.3, 5.9, 7.1, 9.7, 11.3, 13.7}
	midDiffuserMs   = []float64{19.3, 24.7}
	postDiffuserMs  = []float64{2.9, 4.3, 5.7, 7.9, 10.1, 12.3}
	rightStageScale = 1.09
)

var hadamard8 = [8][8]float64{
	{1, 1, 1, 1, 1, 1, 1, 1},
	{1, -1, 1, -1, 1, -1, 1, -1},
	{1, 1, -1, -1, 1, 1, -1, -1},
	{1, -1, -1, 1, 1, -1, -1, 1},
	{1, 1, 1, 1, -1, -1, -1, -1},
	{1, -1, 1, -1, -1, 1, -1, 1},
	{1, 1, -1, -1, -1, -1, 1, 1},
	{1, -1, -1, 1, -1, 1, 1, -1},
}

var hadamard4 = [4][4]float64{
	{1, 1, 1, 1},
	{1, -1, 1, -1},
	{1, 1, -1, -1},
	{1, -1, -1, 1},
}

// Reverb is a stereo ambient reverb built on a modulated feedback delay
// network with pre/mid/post allpass diffusion.
//
// The output is fully wet; dry/wet mixing is the host's responsibility.
// Not safe for concurrent use; one goroutine (the audio thread) owns it.
type Reverb struct {
	sampleRate float64
	quality    Quality
	lineCount  int
	interpMode interp.Mode
	params     Params

	lines      [maxLines]*delay.Line
	dampState  [maxLines]float64
	lineDelays [maxLines]float64

	predelayL *delay.Line
	predelayR *delay.Line

	preL, preR   *diffuser.Chain
	midL, midR   *diffuser.Chain
	postL, postR *diffuser.Chain

	dcL dcBlocker
	dcR dcBlocker

	lfoPhases [lfoCount]float64
	lfoSteps  [lfoCount]float64

	feedbackGain    float64
	dampTarget      float64
	smoothedDamp    float64
	predelaySamples float64
	modDepth        float64
	outScale        float64
	matrixScale     float64

	taps   [maxLines]float64
	damped [maxLines]float64
}

// Option configures a Reverb.
type Option func(*Reverb)

// WithQuality selects the performance tier.
func WithQuality(q Quality) Option {
	return func(r *Reverb) {
		r.quality = q
	}
}

// New creates a reverb at the given sample rate with default parameters.
// All delay buffers are sized for the full parameter range up front, so no
// later parameter change allocates.
func New(sampleRate float64, opts ...Option) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	r := &Reverb{
		sampleRate: sampleRate,
		quality:    QualityUltra,
		params:     DefaultParams(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	r.lineCount, r.interpMode = r.quality.network()
	r.matrixScale = 1 / math.Sqrt(float64(r.lineCount))
	r.outScale = r.matrixScale

	if err := r.allocate(); err != nil {
		return nil, err
	}

	r.applyDerived()
	r.Reset(0)

	return r, nil
}

// network returns line count and interpolation mode for a quality tier.
func (q Quality) network() (int, interp.Mode) {
	switch q {
	case QualityBalanced:
		return 8, interp.ModeLinear
	case QualityLite:
		return 4, interp.ModeLinear
	default:
		return 8, interp.ModeCubic
	}
}

func (r *Reverb) allocate() error {
	for i := 0; i < r.lineCount; i++ {
		capacity := int(math.Ceil(core.MsToSamples(fdnBaseDelayMs[i]*maxSizeScale, r.sampleRate)*(1+modDepthRatio))) + delayHeadroom

		line, err := delay.New(capacity)
		if err != nil {
			return fmt.Errorf("reverb line %d: %w", i, err)
		}
		r.lines[i] = line
	}

	predelayCap := int(math.Ceil(core.MsToSamples(maxPredelayMs, r.sampleRate))) + delayHeadroom

	var err error
	if r.predelayL, err = delay.New(predelayCap); err != nil {
		return err
	}
	if r.predelayR, err = delay.New(predelayCap); err != nil {
		return err
	}

	build := func(ms []float64, scale float64) (*diffuser.Chain, error) {
		delays := make([]int, len(ms))
		for i, m := range ms {
			delays[i] = int(math.Round(core.MsToSamples(m*scale, r.sampleRate)))
			if delays[i] < 1 {
				delays[i] = 1
			}
		}
		return diffuser.NewChain(delays, 0.5)
	}

	if r.preL, err = build(preDiffuserMs, 1); err != nil {
		return err
	}
	if r.preR, err = build(preDiffuserMs, rightStageScale); err != nil {
		return err
	}
	if r.midL, err = build(midDiffuserMs, 1); err != nil {
		return err
	}
	if r.midR, err = build(midDiffuserMs, rightStageScale); err != nil {
		return err
	}
	if r.postL, err = build(postDiffuserMs, 1); err != nil {
		return err
	}
	if r.postR, err = build(postDiffuserMs, rightStageScale); err != nil {
		return err
	}

	return nil
}

// SetSampleRate rebuilds all time-derived state for a new sample rate.
func (r *Reverb) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	r.sampleRate = sampleRate
	if err := r.allocate(); err != nil {
		return err
	}

	r.applyDerived()
	r.Reset(0)

	return nil
}

// SampleRate returns the sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// Params returns the current (clamped) parameter set.
func (r *Reverb) Params() Params { return r.params }

// FeedbackGain returns the derived loop gain, always <= 0.995.
func (r *Reverb) FeedbackGain() float64 { return r.feedbackGain }

// SetParams applies a complete parameter snapshot. All derived coefficients
// are recomputed from scratch; out-of-range values are clamped.
func (r *Reverb) SetParams(p Params) {
	r.params = p.clamped()
	r.applyDerived()
}

// applyDerived recomputes every coefficient from the parameter snapshot.
// Recomputation is deterministic and total: nothing is derived incrementally.
func (r *Reverb) applyDerived() {
	p := r.params
	pre := presets[p.Type]

	r.feedbackGain = math.Min(maxFeedbackGain, pre.baseDecay+(1-pre.baseDecay)*p.Decay*0.9)

	size := p.Size * pre.size
	size = core.Clamp(size, 0.5, maxSizeScale)
	for i := 0; i < r.lineCount; i++ {
		d := core.MsToSamples(fdnBaseDelayMs[i]*size, r.sampleRate)
		if max := r.lines[i].MaxDelay(); d > max {
			d = max
		}
		if d < 1 {
			d = 1
		}
		r.lineDelays[i] = d
	}

	r.modDepth = modDepthRatio * p.Modulation * pre.modDepth

	r.predelaySamples = core.MsToSamples(p.PredelayMs, r.sampleRate)
	if max := r.predelayL.MaxDelay(); r.predelaySamples > max {
		r.predelaySamples = max
	}

	r.dampTarget = core.Clamp(pre.damping+(1-pre.damping)*p.Damping, 0, 0.95)

	diff := pre.diffusion * p.Diffusion
	r.preL.SetFeedback(0.5 + 0.4*diff)
	r.preR.SetFeedback(0.5 + 0.4*diff)
	r.midL.SetFeedback(0.45 + 0.4*diff)
	r.midR.SetFeedback(0.45 + 0.4*diff)
	r.postL.SetFeedback(0.4 + 0.4*diff)
	r.postR.SetFeedback(0.4 + 0.4*diff)

	for j := range r.lfoSteps {
		r.lfoSteps[j] = lfoRatesHz[j] / r.sampleRate
	}
}

// Reset clears all delay, filter, and LFO state to a reproducible start.
// The seed is accepted for interface symmetry; the reverb holds no RNG.
func (r *Reverb) Reset(_ uint32) {
	for i := 0; i < r.lineCount; i++ {
		r.lines[i].Reset()
		r.dampState[i] = 0
	}

	r.predelayL.Reset()
	r.predelayR.Reset()

	r.preL.Reset()
	r.preR.Reset()
	r.midL.Reset()
	r.midR.Reset()
	r.postL.Reset()
	r.postR.Reset()

	r.dcL = dcBlocker{}
	r.dcR = dcBlocker{}

	for j := range r.lfoPhases {
		r.lfoPhases[j] = float64(j) / lfoCount
	}

	r.smoothedDamp = r.dampTarget
}

// ProcessBlock renders one block of fully wet stereo reverb.
// All four slices must have the same length; extra input samples beyond the
// shortest slice are ignored.
func (r *Reverb) ProcessBlock(inL, inR, outL, outR []float64) {
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
		outL[i], outR[i] = r.processSample(inL[i], inR[i])
	}
}

func (r *Reverb) processSample(inL, inR float64) (float64, float64) {
	// Predelay.
	r.predelayL.Write(inL)
	r.predelayR.Write(inR)
	l := inL
	rr := inR
	if r.predelaySamples >= 1 {
		l = r.predelayL.ReadFractional(r.predelaySamples, r.interpMode)
		rr = r.predelayR.ReadFractional(r.predelaySamples, r.interpMode)
	}

	// Pre-diffusion smears transients before they enter the network.
	l = r.preL.Process(l)
	rr = r.preR.Process(rr)

	// Modulated tap reads.
	for i := 0; i < r.lineCount; i++ {
		lfo := triangle(r.lfoPhases[i%lfoCount])
		d := r.lineDelays[i] * (1 + r.modDepth*lfo)
		if d < 1 {
			d = 1
		}
		r.taps[i] = r.lines[i].ReadFractional(d, r.interpMode)
	}

	for j := range r.lfoPhases {
		r.lfoPhases[j] += r.lfoSteps[j]
		if r.lfoPhases[j] >= 1 {
			r.lfoPhases[j] -= 1
		}
	}

	// Damping, slowly approaching its target to avoid audible jumps.
	r.smoothedDamp += (r.dampTarget - r.smoothedDamp) * dampSmoothCoeff
	for i := 0; i < r.lineCount; i++ {
		filtered := r.taps[i]*(1-r.smoothedDamp) + r.dampState[i]*r.smoothedDamp
		r.dampState[i] = core.FlushDenormals(filtered)
		r.damped[i] = filtered
	}

	// Hadamard mix, input injection, loop gain, soft clip, write back.
	half := r.lineCount / 2
	for i := 0; i < r.lineCount; i++ {
		mixed := 0.0
		if r.lineCount == 4 {
			for j := 0; j < 4; j++ {
				mixed += hadamard4[i][j] * r.damped[j]
			}
		} else {
			for j := 0; j < 8; j++ {
				mixed += hadamard8[i][j] * r.damped[j]
			}
		}
		mixed *= r.matrixScale

		inject := l
		if i >= half {
			inject = rr
		}

		w := (mixed + inject*inputInjectGain) * r.feedbackGain
		r.lines[i].Write(core.SoftClip(w))
	}

	// Stereo output from the raw (pre-damping-feedback) taps.
	evenSum := 0.0
	oddSum := 0.0
	for i := 0; i < r.lineCount; i += 2 {
		evenSum += r.taps[i]
		oddSum += r.taps[i+1]
	}
	evenSum *= r.outScale
	oddSum *= r.outScale

	rawL := crossMixDirect*evenSum + crossMixOpposed*oddSum
	rawR := crossMixDirect*oddSum + crossMixOpposed*evenSum

	wetL := rawMidBlendRaw*rawL + rawMidBlendMid*r.midL.Process(evenSum)
	wetR := rawMidBlendRaw*rawR + rawMidBlendMid*r.midR.Process(oddSum)

	wetL = r.dcL.process(r.postL.Process(wetL))
	wetR = r.dcR.process(r.postR.Process(wetR))

	// Width via mid/side.
	mid := 0.5 * (wetL + wetR)
	side := 0.5 * (wetL - wetR) * r.params.Width

	return mid + side, mid - side
}

// triangle maps a phase in [0,1) to a triangle wave in [-1,1].
func triangle(phase float64) float64 {
	return 1 - 4*math.Abs(phase-0.5)
}

// dcBlocker is a one-pole highpass removing feedback-loop DC buildup.
type dcBlocker struct {
	x1, y1 float64
}

func (d *dcBlocker) process(x float64) float64 {
	y := x - d.x1 + dcBlockCoeff*d.y1
	d.x1 = x
	d.y1 = core.FlushDenormals(y)
	return y
}
