package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudeSquaredMatchesResponse(t *testing.T) {
	sr := 48000.0
	for _, freq := range []float64{100, 500, 1000, 5000, 10000, 20000} {
		h := testCoeffs.Response(freq, sr)
		fromResponse := real(h)*real(h) + imag(h)*imag(h)
		if got := testCoeffs.MagnitudeSquared(freq, sr); !almostEqual(got, fromResponse, 1e-10) {
			t.Errorf("freq=%v: MagnitudeSquared=%.15f, |Response|^2=%.15f", freq, got, fromResponse)
		}
		db := testCoeffs.MagnitudeDB(freq, sr)
		if want := 10 * math.Log10(fromResponse); !almostEqual(db, want, 1e-9) {
			t.Errorf("freq=%v: MagnitudeDB=%v, want %v", freq, db, want)
		}
	}
}

func TestResponseIdentity(t *testing.T) {
	for _, freq := range []float64{0, 100, 1000, 10000, 24000} {
		if mag := cmplx.Abs(Identity.Response(freq, 48000)); !almostEqual(mag, 1, eps) {
			t.Errorf("freq=%v: |H|=%v, want 1", freq, mag)
		}
	}
}

func TestResponseAllpass(t *testing.T) {
	a1, a2 := -0.5, 0.3
	c := Coefficients{B0: a2, B1: a1, B2: 1, A1: a1, A2: a2}
	for _, freq := range []float64{100, 1000, 10000, 20000} {
		if mag := cmplx.Abs(c.Response(freq, 48000)); !almostEqual(mag, 1, 1e-10) {
			t.Errorf("freq=%v: |H|=%.15f, want 1", freq, mag)
		}
	}
}

func TestImpulseResponsePreservesState(t *testing.T) {
	s := NewSection(testCoeffs)
	s.ProcessSample(0.5)
	s.ProcessSample(0.3)
	saved := s.State()

	ir := s.ImpulseResponse(8)
	if s.State() != saved {
		t.Fatal("ImpulseResponse modified section state")
	}

	ref := NewSection(testCoeffs)
	for i, want := range ir {
		var x float64
		if i == 0 {
			x = 1
		}
		if got := ref.ProcessSample(x); !almostEqual(got, want, eps) {
			t.Errorf("ir[%d]: got %.15f, want %.15f", i, got, want)
		}
	}

	if s.ImpulseResponse(0) != nil || s.ImpulseResponse(-1) != nil {
		t.Error("non-positive length should return nil")
	}
}
