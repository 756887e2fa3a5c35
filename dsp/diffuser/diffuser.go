// Package diffuser provides cascaded Schroeder allpass stages.
//
// An allpass diffuser smears transients in time while preserving spectral
// energy, increasing echo density without changing decay rate. The reverb
// engine uses three chains per channel (pre, mid, post).
package diffuser

import (
	"fmt"

	"github.com/cwbudde/algo-ambient/dsp/delay"
)

// maxFeedback keeps every stage strictly below unity feedback.
const maxFeedback = 0.99

// Stage is a single Schroeder allpass: v = x - d*fb; out = d + v*fb.
type Stage struct {
	line         *delay.Line
	delaySamples int
	feedback     float64
}

// NewStage creates an allpass stage with a fixed delay length in samples.
func NewStage(delaySamples int, feedback float64) (*Stage, error) {
	if delaySamples < 1 {
		return nil, fmt.Errorf("diffuser stage delay must be >= 1 sample: %d", delaySamples)
	}

	line, err := delay.New(delaySamples + 4)
	if err != nil {
		return nil, err
	}

	s := &Stage{
		line:         line,
		delaySamples: delaySamples,
	}
	s.SetFeedback(feedback)

	return s, nil
}

// SetFeedback swaps the feedback coefficient live, clamped to [0, 0.99).
// The delay buffer is untouched, so there is no discontinuity beyond the
// coefficient's own effect.
func (s *Stage) SetFeedback(fb float64) {
	if fb < 0 {
		fb = 0
	}
	if fb > maxFeedback {
		fb = maxFeedback
	}
	s.feedback = fb
}

// Feedback returns the current feedback coefficient.
func (s *Stage) Feedback() float64 { return s.feedback }

// Process runs one sample through the allpass.
func (s *Stage) Process(x float64) float64 {
	delayed := s.line.Read(s.delaySamples - 1)
	v := x - delayed*s.feedback
	s.line.Write(v)
	return delayed + v*s.feedback
}

// Reset clears the stage's delay buffer.
func (s *Stage) Reset() {
	s.line.Reset()
}

// Chain applies a fixed sequence of allpass stages.
//
// Stage order and delay lengths are fixed at construction; only feedback
// coefficients are mutated live.
type Chain struct {
	stages []*Stage
}

// NewChain creates a chain with one stage per delay length, all sharing the
// same initial feedback coefficient.
func NewChain(delaysSamples []int, feedback float64) (*Chain, error) {
	if len(delaysSamples) == 0 {
		return nil, fmt.Errorf("diffuser chain needs at least one stage")
	}

	stages := make([]*Stage, len(delaysSamples))
	for i, d := range delaysSamples {
		stage, err := NewStage(d, feedback)
		if err != nil {
			return nil, fmt.Errorf("diffuser chain stage %d: %w", i, err)
		}
		stages[i] = stage
	}

	return &Chain{stages: stages}, nil
}

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// SetFeedback updates every stage's feedback coefficient.
func (c *Chain) SetFeedback(fb float64) {
	for _, s := range c.stages {
		s.SetFeedback(fb)
	}
}

// Process runs one sample through all stages in order.
func (c *Chain) Process(x float64) float64 {
	for _, s := range c.stages {
		x = s.Process(x)
	}
	return x
}

// Reset clears all stage buffers.
func (c *Chain) Reset() {
	for _, s := range c.stages {
		s.Reset()
	}
}
