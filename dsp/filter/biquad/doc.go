// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Block processing is
// dispatched once per process to the best kernel registered for the running
// CPU (see [KernelName]).
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
