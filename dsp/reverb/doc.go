// Package reverb provides the ambient feedback-delay-network reverb.
//
// The network is an 8-line FDN with Hadamard mixing, slow triangle-LFO
// delay modulation, per-line one-pole damping, and allpass diffusion before,
// inside, and after the loop. Character presets (plate, hall, cathedral,
// dark hall) set the base decay, damping, diffusion, size, and modulation
// depth that user parameters then scale.
package reverb
