package modulation

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/soundfx/dsp/core"
)

const (
	defaultRingModCarrierHz = 440.0
	defaultRingModMix       = 1.0

	twoPi = 2 * math.Pi
)

// RingModulatorOption mutates ring modulator construction parameters.
type RingModulatorOption func(*ringModConfig) error

type ringModConfig struct {
	carrierHz float64
	mix       float64
}

func defaultRingModConfig() ringModConfig {
	return ringModConfig{
		carrierHz: defaultRingModCarrierHz,
		mix:       defaultRingModMix,
	}
}

// WithRingModCarrierHz sets the initial carrier frequency in Hz. It must lie
// in [0, sampleRate/2]; the upper bound is checked by NewRingModulator.
func WithRingModCarrierHz(carrierHz float64) RingModulatorOption {
	return func(cfg *ringModConfig) error {
		if carrierHz < 0 || math.IsNaN(carrierHz) || math.IsInf(carrierHz, 0) {
			return fmt.Errorf("ring modulator carrier frequency must be >= 0 and finite: %f", carrierHz)
		}

		cfg.carrierHz = carrierHz

		return nil
	}
}

// WithRingModMix sets the dry/wet mix in [0, 1], where 0 is fully dry and 1 is fully wet.
func WithRingModMix(mix float64) RingModulatorOption {
	return func(cfg *ringModConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("ring modulator mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// RingModulator multiplies the input by a sine carrier, producing the sum and
// difference frequencies of input and carrier.
//
//	wet    = input * sin(phase)
//	output = input*(1-mix) + wet*mix
//
// Carrier frequency and mix may be changed from any goroutine; the new phase
// increment is picked up by the next processed sample. Phase is owned by the
// processing goroutine and wraps into [0, 2π) every sample.
type RingModulator struct {
	sampleRate float64
	carrierHz  core.AtomicFloat64
	phaseInc   core.AtomicFloat64
	mix        core.AtomicFloat64

	phase        float64
	resetPending atomic.Bool
}

// NewRingModulator creates a ring modulator with the given sample rate and
// optional configuration overrides.
func NewRingModulator(sampleRate float64, opts ...RingModulatorOption) (*RingModulator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("ring modulator sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultRingModConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.carrierHz > sampleRate/2 {
		return nil, fmt.Errorf("ring modulator carrier frequency must be <= %g: %f", sampleRate/2, cfg.carrierHz)
	}

	r := &RingModulator{sampleRate: sampleRate}
	r.SetCarrierHz(cfg.carrierHz)
	r.mix.Store(cfg.mix)

	return r, nil
}

// SetCarrierHz sets the carrier frequency, clamped to [0, sampleRate/2].
// NaN is ignored.
func (r *RingModulator) SetCarrierHz(carrierHz float64) {
	if math.IsNaN(carrierHz) {
		return
	}

	carrierHz = core.Clamp(carrierHz, 0, r.sampleRate/2)
	r.carrierHz.Store(carrierHz)
	r.phaseInc.Store(twoPi * carrierHz / r.sampleRate)
}

// SetMix sets the dry/wet mix, clamped to [0, 1]. NaN is ignored.
func (r *RingModulator) SetMix(mix float64) {
	if math.IsNaN(mix) {
		return
	}

	r.mix.Store(core.Clamp(mix, 0, 1))
}

// Reset returns the oscillator phase to zero. It is safe to call from any
// goroutine; the processing goroutine applies it before its next sample.
func (r *RingModulator) Reset() {
	r.resetPending.Store(true)
}

// Process processes one sample through the ring modulator.
func (r *RingModulator) Process(sample float64) float64 {
	r.applyReset()

	carrier := math.Sin(r.phase)
	r.phase = math.Mod(r.phase+r.phaseInc.Load(), twoPi)

	mix := r.mix.Load()
	return sample*(1-mix) + sample*carrier*mix
}

// ProcessBlock modulates buf in place. When carrier has room for len(buf)
// samples the carrier values used are written into it. Carrier frequency and
// mix are sampled once per call. Zero-alloc.
func (r *RingModulator) ProcessBlock(buf, carrier []float64) {
	r.applyReset()

	inc := r.phaseInc.Load()
	mix := r.mix.Load()
	dry := 1 - mix
	writeCarrier := len(carrier) >= len(buf)
	phase := r.phase

	for i, x := range buf {
		c := math.Sin(phase)
		if writeCarrier {
			carrier[i] = c
		}
		buf[i] = x*dry + x*c*mix
		phase = math.Mod(phase+inc, twoPi)
	}

	r.phase = phase
}

// Phase returns the oscillator phase in [0, 2π). Call it from the processing
// goroutine or while processing is stopped.
func (r *RingModulator) Phase() float64 {
	if r.resetPending.Load() {
		return 0
	}
	return r.phase
}

// SampleRate returns sample rate in Hz.
func (r *RingModulator) SampleRate() float64 { return r.sampleRate }

// CarrierHz returns the carrier oscillator frequency in Hz.
func (r *RingModulator) CarrierHz() float64 { return r.carrierHz.Load() }

// Mix returns the dry/wet mix in [0, 1].
func (r *RingModulator) Mix() float64 { return r.mix.Load() }

func (r *RingModulator) applyReset() {
	if r.resetPending.Load() && r.resetPending.CompareAndSwap(true, false) {
		r.phase = 0
	}
}
