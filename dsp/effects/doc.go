// Package effects provides the gain and clipping stage of the chain.
//
// Subpackages:
//   - github.com/cwbudde/soundfx/dsp/effects/modulation
//
// Effects in this package:
//   - Distortion: pre-gain, hard or tanh soft clipping, post-gain.
//
// Parameters are atomics and may be changed from a control goroutine while
// another goroutine processes audio. Processing does not allocate.
package effects
