// Package design provides RBJ-style biquad coefficient designers.
//
// The functions in this package produce coefficients consumable by
// dsp/filter/biquad. Invalid inputs (non-positive sample rate, frequency
// outside (0, Nyquist)) yield the zero section, which callers treat as a
// design failure; the filter bank clamps its inputs before designing so
// that never happens at runtime.
package design
