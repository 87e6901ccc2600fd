// Package level measures the loudness of short windows of audio samples,
// as shown by a meter next to a scope view.
package level

import "math"

// Levels holds time-domain statistics of one window of samples.
//
//nolint:revive
type Levels struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	ZeroCrossings  int
	// Clipped counts samples with |x| at or above the clip threshold.
	Clipped int
}

// FullScale is the clip threshold used by Measure.
const FullScale = 1.0

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

func empty() Levels {
	return Levels{
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
}

// Measure computes Levels of samples against FullScale.
func Measure(samples []float32) Levels {
	return MeasureAt(samples, FullScale)
}

// MeasureAt computes Levels of samples, counting samples whose magnitude
// reaches clipAt as clipped. Non-finite samples count as clipped and are
// otherwise ignored.
func MeasureAt(samples []float32, clipAt float64) Levels {
	if len(samples) == 0 {
		return empty()
	}

	var (
		sum, sumSq float64
		peak       float64
		clipped    int
		crossings  int
		prev       float64
	)

	for i, s := range samples {
		x := float64(s)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			clipped++
			continue
		}

		sum += x
		sumSq += x * x

		a := math.Abs(x)
		if a > peak {
			peak = a
		}
		if a >= clipAt {
			clipped++
		}
		if i > 0 && prev*x < 0 {
			crossings++
		}
		prev = x
	}

	n := float64(len(samples))
	rms := math.Sqrt(sumSq / n)

	l := Levels{
		Length:        len(samples),
		DC:            sum / n,
		RMS:           rms,
		RMS_dB:        ampTodB(rms),
		Peak:          peak,
		Peak_dB:       ampTodB(peak),
		ZeroCrossings: crossings,
		Clipped:       clipped,
	}
	if rms > 0 {
		l.CrestFactor = peak / rms
		l.CrestFactor_dB = 20 * math.Log10(l.CrestFactor)
	}

	return l
}

// RMS returns the root-mean-square of samples.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sumSq float64
	for _, s := range samples {
		x := float64(s)
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(samples)))
}

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float64 {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}

	return peak
}
