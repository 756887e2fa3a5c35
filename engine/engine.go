// Package engine is the host-facing glue around the signal packages:
// shared processor interfaces, a lock-free parameter handoff for
// control threads, and a lightweight per-block CPU meter.
package engine

// Processor is the control surface every audio unit exposes.
// Reset must be idempotent: two resets with the same seed leave the
// unit in identical states.
type Processor interface {
	SetSampleRate(sampleRate float64) error
	Reset(seed uint32)
}

// Generator produces stereo audio with no input signal.
type Generator interface {
	Processor
	ProcessBlock(outL, outR []float64)
}

// Effect transforms a stereo input into a stereo output.
// In-place operation (out aliasing in) must be supported.
type Effect interface {
	Processor
	ProcessBlock(inL, inR, outL, outR []float64)
}
