package dither_test

import (
	"fmt"

	"github.com/cwbudde/soundfx/dsp/dither"
)

func ExampleQuantizer_Quantize() {
	q, err := dither.NewQuantizer(
		dither.WithBitDepth(16),
		dither.WithDitherType(dither.DitherNone),
	)
	if err != nil {
		panic(err)
	}

	for _, x := range []float64{0, 0.5, -1, 1.5} {
		fmt.Print(q.Quantize(x), " ")
	}
	fmt.Println()
	// Output: 0 16384 -32768 32767
}
