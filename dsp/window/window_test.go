package window

import (
	"math"
	"testing"
)

func TestGenerateHannSymmetric(t *testing.T) {
	w := Generate(TypeHann, 5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestGeneratePeriodic(t *testing.T) {
	w := Generate(TypeHann, 4, WithPeriodic())
	want := []float64{0, 0.5, 1, 0.5}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestCoherentGain(t *testing.T) {
	tests := []struct {
		typ  Type
		want float64
	}{
		{TypeRectangular, 1},
		{TypeHann, 0.5},
		{TypeHamming, 0.54},
		{TypeBlackmanHarris4Term, 0.35875},
	}
	for _, tt := range tests {
		got := CoherentGain(Generate(tt.typ, 1024, WithPeriodic()))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("type %d: coherent gain %v, want %v", tt.typ, got, tt.want)
		}
	}
	if CoherentGain(nil) != 0 {
		t.Error("empty window should have zero gain")
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	Apply(buf, Generate(TypeHann, 5))
	want := []float64{0, 1, 2, 1, 0}
	for i := range want {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	Apply(buf, []float64{1})
	if buf[2] != 2 {
		t.Fatal("mismatched lengths should leave buf unchanged")
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("zero length should return nil")
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("length 1: %v", w)
	}
	if w := Generate(Type(99), 3); w[0] != 1 || w[1] != 1 {
		t.Fatalf("unknown type should be rectangular: %v", w)
	}
}
