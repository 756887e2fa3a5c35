// Package rng provides a small deterministic random generator for audio use.
//
// Every stochastic decision in the synthesis engines (grain spawning, wave
// timing, rock excitation) draws from one of these generators, so a given
// seed and parameter trajectory reproduces the same output sample-for-sample.
package rng

// RNG is a mulberry32 generator holding 32 bits of state.
//
// It is cheap enough to call per sample on an audio thread and is not safe
// for concurrent use; each engine instance owns its own generator.
type RNG struct {
	state uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *RNG {
	return &RNG{state: seed}
}

// Reseed replaces the generator state, restarting the sequence.
func (r *RNG) Reseed(seed uint32) {
	r.state = seed
}

// Uint32 advances the state and returns the next 32-bit value.
func (r *RNG) Uint32() uint32 {
	r.state += 0x6D2B79F5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)

	return z ^ (z >> 14)
}

// Float64 returns the next value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Range returns the next value uniformly distributed in [min, max).
// If max <= min it returns min.
func (r *RNG) Range(min, max float64) float64 {
	if max <= min {
		return min
	}

	return min + r.Float64()*(max-min)
}

// Bipolar returns the next value uniformly distributed in [-1, 1).
func (r *RNG) Bipolar() float64 {
	return r.Float64()*2 - 1
}
