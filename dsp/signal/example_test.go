package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/soundfx/dsp/core"
	"github.com/cwbudde/soundfx/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(1000)})
	x, err := g.Sine(250, 1, 5)
	if err != nil {
		panic(err)
	}
	for i := range x {
		if math.Abs(x[i]) < 1e-12 {
			x[i] = 0
		}
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleTone_Fill() {
	tone := signal.NewTone(250, 1, 1000, 1)
	buf := make([]float32, 4)
	tone.Fill(buf)
	for i := range buf {
		if math.Abs(float64(buf[i])) < 1e-6 {
			buf[i] = 0
		}
	}
	fmt.Println(buf)
	// Output:
	// [0 1 0 -1]
}
