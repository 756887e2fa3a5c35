// Package fastmath provides exponential helpers for per-sample synthesis
// paths, with optional fast approximations.
//
// Build with the "fastmath" tag to back these with algo-approx
// approximations (~5-10x faster, <0.5% relative error in audio ranges).
// The default build uses the standard library for IEEE 754 precision.
package fastmath
