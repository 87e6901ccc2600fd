package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackmanHarris4Term
)

var cosineCoeffs = map[Type][]float64{
	TypeRectangular:         {1},
	TypeHann:                {0.5, -0.5},
	TypeHamming:             {0.54, -0.46},
	TypeBlackmanHarris4Term: {0.35875, -0.48829, 0.14128, -0.01168},
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length. Unknown types
// yield a rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	coeffs, ok := cosineCoeffs[t]
	if !ok {
		coeffs = cosineCoeffs[TypeRectangular]
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = cosineFromCoeffs(samplePosition(i, length, cfg.periodic), coeffs)
	}

	return out
}

// Apply multiplies buf in place by coeffs. Lengths must match; otherwise buf
// is left unchanged.
func Apply(buf, coeffs []float64) {
	if len(buf) == 0 || len(buf) != len(coeffs) {
		return
	}

	vecmath.MulBlockInPlace(buf, coeffs)
}

// CoherentGain returns the mean of the coefficients, the amplitude a windowed
// full-scale sinusoid keeps at its bin.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs))
}

// samplePosition maps index i onto [0, 1] (symmetric) or [0, 1) (periodic).
func samplePosition(i, n int, periodic bool) float64 {
	if n == 1 {
		return 0
	}

	den := float64(n - 1)
	if periodic {
		den = float64(n)
	}

	return float64(i) / den
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(2*math.Pi*float64(k)*x)
	}

	return sum
}
