// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default)
//
// The [Mode] enum allows selecting the interpolation algorithm at
// construction time, which the reverb quality tiers use to trade smoothness
// of modulated delay reads against per-sample cost.
package interp
