package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/soundfx/dsp/spectrum"
)

func ExampleAnalyzer_MagnitudeDB() {
	a, err := spectrum.NewAnalyzer(64)
	if err != nil {
		panic(err)
	}

	frame := make([]float32, 64)
	for i := range frame {
		frame[i] = float32(0.5 * math.Sin(2*math.Pi*8*float64(i)/64))
	}

	db := make([]float64, a.Bins())
	a.MagnitudeDB(db, frame)
	fmt.Printf("bin 8: %.1f dBFS\n", db[8])
	// Output:
	// bin 8: -6.0 dBFS
}
