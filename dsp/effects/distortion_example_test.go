package effects_test

import (
	"fmt"

	"github.com/cwbudde/soundfx/dsp/effects"
)

func ExampleDistortion_ProcessSample() {
	d, err := effects.NewDistortion(
		effects.WithDistortionPreGain(4),
		effects.WithDistortionClipLevel(0.5),
	)
	if err != nil {
		panic(err)
	}

	for _, x := range []float64{0.05, 0.1, 0.2, -0.9} {
		fmt.Printf("%.2f ", d.ProcessSample(x))
	}
	fmt.Println()
	// Output:
	// 0.20 0.40 0.50 -0.50
}
