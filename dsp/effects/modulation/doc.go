// Package modulation provides carrier-based modulation effects.
//
// Included processors:
//   - RingModulator: sine carrier multiply with dry/wet blend.
package modulation
