package modulation_test

import (
	"fmt"

	"github.com/cwbudde/soundfx/dsp/effects/modulation"
)

func ExampleRingModulator_ProcessBlock() {
	rm, err := modulation.NewRingModulator(8000,
		modulation.WithRingModCarrierHz(2000),
	)
	if err != nil {
		fmt.Println("error")
		return
	}

	buf := []float64{1, 1, 1, 1}
	carrier := make([]float64, len(buf))
	rm.ProcessBlock(buf, carrier)

	fmt.Printf("%.1f %.1f %.1f %.1f\n", buf[0], buf[1], buf[2], buf[3])
	// Output:
	// 0.0 1.0 0.0 -1.0
}
