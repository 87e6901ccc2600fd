package core

import (
	"math"
	"sync/atomic"
)

// AtomicFloat64 is a float64 cell that can be written by a control goroutine
// and read by the audio callback without locking. The zero value holds 0.
type AtomicFloat64 struct {
	bits atomic.Uint64
}

// NewAtomicFloat64 returns a cell holding v.
func NewAtomicFloat64(v float64) *AtomicFloat64 {
	a := &AtomicFloat64{}
	a.Store(v)
	return a
}

// Load returns the current value.
func (a *AtomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Store replaces the current value.
func (a *AtomicFloat64) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}
