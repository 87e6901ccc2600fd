// Package spectrum computes windowed FFT magnitude spectra of audio frames.
//
// An [Analyzer] owns its FFT plan and scratch buffers and is meant for the
// control side of an audio application: it is safe for concurrent use but
// serializes callers, so it must not be driven from a real-time callback.
package spectrum
