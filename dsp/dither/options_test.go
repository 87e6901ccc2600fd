package dither

import (
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	q, err := NewQuantizer()
	if err != nil {
		t.Fatal(err)
	}
	if q.BitDepth() != 16 {
		t.Errorf("BitDepth = %d, want 16", q.BitDepth())
	}
	if q.DitherType() != DitherTriangular {
		t.Errorf("DitherType = %v, want Triangular", q.DitherType())
	}
	if q.DitherAmplitude() != 1 {
		t.Errorf("DitherAmplitude = %v, want 1", q.DitherAmplitude())
	}
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"bits low", WithBitDepth(4)},
		{"bits high", WithBitDepth(33)},
		{"type", WithDitherType(DitherType(42))},
		{"negative amp", WithDitherAmplitude(-1)},
		{"nan amp", WithDitherAmplitude(math.NaN())},
		{"inf amp", WithDitherAmplitude(math.Inf(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewQuantizer(tt.opt); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNilOptionIgnored(t *testing.T) {
	if _, err := NewQuantizer(nil, WithBitDepth(24)); err != nil {
		t.Fatal(err)
	}
}
