// Package bank provides the cascaded filter stage of the effects chain.
//
// A [Bank] is an ordered series of biquad bands. Every band carries a
// [Kind] (Bypass, Lowpass, Highpass, Bandpass or Peak) and publishes its
// parameters together with freshly designed coefficients through a single
// atomic pointer, so a control goroutine can retune a band while the audio
// goroutine is inside ProcessBlock. The audio goroutine owns the filter
// state and picks up new coefficients at the next block boundary.
//
// Two layouts cover the common cases:
//
//   - [NewTone] builds a highpass followed by a lowpass.
//   - [NewFilterbank] builds up to [MaxBands] log-spaced peaking bands.
//
// Basic usage:
//
//	b, _ := bank.NewFilterbank(44100, 8, 60, 12000)
//	b.SetGain(3, 2) // +6 dB around the fourth band
//	b.ProcessBlock(buf)
package bank
