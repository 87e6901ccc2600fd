package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/soundfx/dsp/window"
)

func sine32(freq, sr, amp float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/sr))
	}
	return out
}

func TestNewAnalyzerValidatesSize(t *testing.T) {
	for _, size := range []int{0, 8, 1000, 1 << 17} {
		if _, err := NewAnalyzer(size); err == nil {
			t.Errorf("size %d: expected error", size)
		}
	}
	a, err := NewAnalyzer(1024)
	if err != nil {
		t.Fatal(err)
	}
	if a.Size() != 1024 || a.Bins() != 513 {
		t.Fatalf("Size=%d Bins=%d", a.Size(), a.Bins())
	}
}

func TestMagnitudeDBFullScaleSine(t *testing.T) {
	const sr = 44100.0
	a, err := NewAnalyzer(1024)
	if err != nil {
		t.Fatal(err)
	}

	// Bin-centered tone: bin 32.
	freq := a.BinFrequency(32, sr)
	dst := make([]float64, a.Bins())
	n, err := a.MagnitudeDB(dst, sine32(freq, sr, 1, 1024))
	if err != nil {
		t.Fatal(err)
	}
	if n != a.Bins() {
		t.Fatalf("n = %d", n)
	}

	peak := 0
	for k := range dst {
		if dst[k] > dst[peak] {
			peak = k
		}
	}
	if peak != 32 {
		t.Fatalf("peak bin %d, want 32", peak)
	}
	if math.Abs(dst[32]) > 0.05 {
		t.Fatalf("peak level %v dBFS, want ~0", dst[32])
	}
	if dst[200] > -80 {
		t.Fatalf("leakage at bin 200: %v dB", dst[200])
	}
}

func TestMagnitudeDBSilenceAndShortFrames(t *testing.T) {
	a, err := NewAnalyzer(256, WithWindow(window.TypeBlackmanHarris4Term))
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]float64, 10)
	n, err := a.MagnitudeDB(dst, make([]float32, 64))
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("n = %d, want 10", n)
	}
	for k, v := range dst {
		if v != FloorDB {
			t.Fatalf("bin %d: %v, want floor", k, v)
		}
	}

	if _, err := a.MagnitudeDB(dst, sine32(1000, 44100, 0.5, 4096)); err != nil {
		t.Fatal(err)
	}
	for _, v := range dst {
		if math.IsNaN(v) || v < FloorDB {
			t.Fatalf("invalid level %v", v)
		}
	}
}
