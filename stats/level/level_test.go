package level

import (
	"math"
	"testing"

	"github.com/cwbudde/soundfx/internal/testutil"
)

const tolerance = 1e-6

func toFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}

func TestMeasureEmpty(t *testing.T) {
	l := Measure(nil)
	if l.Length != 0 || !math.IsInf(l.RMS_dB, -1) || !math.IsInf(l.Peak_dB, -1) {
		t.Errorf("unexpected levels for empty input: %+v", l)
	}
}

func TestMeasureSilence(t *testing.T) {
	l := Measure(make([]float32, 64))
	if l.RMS != 0 || l.Peak != 0 || l.CrestFactor != 0 {
		t.Errorf("silence: %+v", l)
	}
	if !math.IsInf(l.Peak_dB, -1) {
		t.Errorf("Peak_dB = %v, want -Inf", l.Peak_dB)
	}
}

func TestMeasureSine(t *testing.T) {
	// 100 full cycles of 441 Hz at 44.1 kHz.
	x := toFloat32(testutil.DeterministicSine(441, 44100, 0.5, 10000))
	l := Measure(x)

	testutil.RequireNearlyEqual(t, l.Peak, 0.5, tolerance)
	testutil.RequireNearlyEqual(t, l.RMS, 0.5/math.Sqrt2, tolerance)
	testutil.RequireNearlyEqual(t, l.Peak_dB, 20*math.Log10(0.5), 1e-4)
	testutil.RequireNearlyEqual(t, l.CrestFactor, math.Sqrt2, 1e-5)
	testutil.RequireNearlyEqual(t, l.DC, 0, tolerance)
	if l.Clipped != 0 {
		t.Errorf("Clipped = %d, want 0", l.Clipped)
	}
	if l.ZeroCrossings < 195 || l.ZeroCrossings > 200 {
		t.Errorf("ZeroCrossings = %d, want about 199", l.ZeroCrossings)
	}
}

func TestMeasureClipping(t *testing.T) {
	x := []float32{0.2, 1, -1.5, 0.99, float32(math.NaN())}
	l := Measure(x)
	if l.Clipped != 3 {
		t.Errorf("Clipped = %d, want 3", l.Clipped)
	}
	if l.Peak != 1.5 {
		t.Errorf("Peak = %v, want 1.5", l.Peak)
	}

	if got := MeasureAt(x, 0.5).Clipped; got != 4 {
		t.Errorf("MeasureAt(0.5).Clipped = %d, want 4", got)
	}
}

func TestRMSAndPeak(t *testing.T) {
	x := []float32{1, -1, 1, -1}
	if got := RMS(x); got != 1 {
		t.Errorf("RMS = %v, want 1", got)
	}
	if got := Peak([]float32{0.1, -0.7, 0.3}); math.Abs(got-0.7) > tolerance {
		t.Errorf("Peak = %v, want 0.7", got)
	}
	if RMS(nil) != 0 || Peak(nil) != 0 {
		t.Error("empty input should measure 0")
	}
}
