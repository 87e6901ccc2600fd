//go:build arm64 && !purego

package neon

import (
	"github.com/cwbudde/soundfx/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "neon",
		SIMDLevel:    cpu.SIMDNEON,
		Priority:     15,
		ProcessBlock: processBlock,
	})
}

// processBlock interleaves the recursion with the next input load so the
// in-order pipelines on small ARM cores stay fed.
func processBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	n := len(buf)
	if n == 0 {
		return d0, d1
	}
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	x := buf[0]
	for i := 0; i < n-1; i++ {
		next := buf[i+1]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
		x = next
	}
	y := b0*x + d0
	d0 = b1*x - a1*y + d1
	d1 = b2*x - a2*y
	buf[n-1] = y

	return d0, d1
}
