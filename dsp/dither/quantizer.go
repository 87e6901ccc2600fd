package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Quantizer turns normalized samples into integer PCM codes. It is not safe
// for concurrent use.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	rng             *rand.Rand

	scale   float64
	limitLo int
	limitHi int
}

// NewQuantizer creates a Quantizer. The default is 16-bit with triangular
// dither of 1 LSB.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:        cfg.bitDepth,
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		rng:             cfg.rng,
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	q.updateDerived()

	return q, nil
}

func (q *Quantizer) updateDerived() {
	q.scale = math.Ldexp(1, q.bitDepth-1)
	q.limitLo = -int(q.scale)
	q.limitHi = int(q.scale) - 1
}

// Quantize converts one sample in [-1, +1] to a PCM code. NaN maps to 0.
func (q *Quantizer) Quantize(input float64) int {
	if math.IsNaN(input) {
		return 0
	}

	v := math.Round(input*q.scale + q.noise())
	if v < float64(q.limitLo) {
		return q.limitLo
	}
	if v > float64(q.limitHi) {
		return q.limitHi
	}

	return int(v)
}

// QuantizeBlock converts min(len(dst), len(src)) samples and returns the
// count.
func (q *Quantizer) QuantizeBlock(dst []int, src []float32) int {
	n := min(len(dst), len(src))
	for i, x := range src[:n] {
		dst[i] = q.Quantize(float64(x))
	}

	return n
}

// Normalize maps a PCM code back to [-1, +1).
func (q *Quantizer) Normalize(code int) float64 {
	return float64(code) / q.scale
}

func (q *Quantizer) noise() float64 {
	switch q.ditherType {
	case DitherRectangular:
		return q.ditherAmplitude * (q.rng.Float64() - 0.5)
	case DitherTriangular:
		return q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
	case DitherGaussian:
		return q.ditherAmplitude * 0.5 * q.rng.NormFloat64()
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise type.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// DitherAmplitude returns the dither noise amplitude in LSB.
func (q *Quantizer) DitherAmplitude() float64 { return q.ditherAmplitude }

// SetDitherType changes the dither noise PDF.
func (q *Quantizer) SetDitherType(dt DitherType) error {
	if !dt.Valid() {
		return fmt.Errorf("dither: invalid dither type: %d", dt)
	}

	q.ditherType = dt

	return nil
}
