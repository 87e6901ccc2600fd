package bank

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/soundfx/dsp/core"
	"github.com/cwbudde/soundfx/dsp/filter/biquad"
	"github.com/cwbudde/soundfx/dsp/filter/design"
)

const (
	// MaxBands is the largest number of bands a Bank accepts.
	MaxBands = 24
	// MinFrequency is the lowest band frequency in Hz.
	MinFrequency = 10.0
	// MaxFrequencyRatio bounds band frequencies to this fraction of the
	// sample rate, just below Nyquist.
	MaxFrequencyRatio = 0.499

	MinQ    = 0.1
	MaxQ    = 30.0
	MinGain = 0.0
	MaxGain = 8.0

	// minPeakDB is the cut applied by a Peak band whose linear gain is 0.
	minPeakDB = -60.0
	// responseFloorDB bounds ResponseDB for bands that null the signal.
	responseFloorDB = -120.0
)

// ErrInvalidBank is returned by the constructors for unusable layouts.
var ErrInvalidBank = errors.New("bank: invalid configuration")

// BandParams is the control-side description of one band.
// Gain is linear. Peak bands interpret it as 20*log10(Gain) dB of boost or
// cut; the other kinds scale their output by it.
type BandParams struct {
	Kind      Kind
	Frequency float64
	Q         float64
	Gain      float64
	Enabled   bool
}

// bandState is immutable once published.
type bandState struct {
	params BandParams
	coeffs biquad.Coefficients
	active bool
}

type band struct {
	state atomic.Pointer[bandState]

	// Owned by the processing goroutine.
	section   biquad.Section
	wasActive bool
}

type freqRange struct {
	min, max float64
}

// Bank is an ordered cascade of biquad bands.
type Bank struct {
	sampleRate float64
	bands      []band
	span       atomic.Pointer[freqRange]
}

// New builds a bank from explicit band parameters. Parameters are clamped
// into range. The rescale range starts at [MinFrequency, 0.499*fs].
func New(sampleRate float64, params []BandParams) (*Bank, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate %v: %w", sampleRate, ErrInvalidBank)
	}
	if len(params) == 0 || len(params) > MaxBands {
		return nil, fmt.Errorf("band count %d not in [1, %d]: %w", len(params), MaxBands, ErrInvalidBank)
	}

	b := &Bank{
		sampleRate: sampleRate,
		bands:      make([]band, len(params)),
	}
	for i, p := range params {
		b.bands[i].state.Store(b.design(p))
	}
	b.span.Store(&freqRange{min: MinFrequency, max: b.maxFrequency()})

	return b, nil
}

// NewTone builds the two-band tone layout: a highpass at hpHz followed by a
// lowpass at lpHz, both Butterworth. The rescale range is [hpHz, lpHz] when
// hpHz < lpHz.
func NewTone(sampleRate, hpHz, lpHz float64) (*Bank, error) {
	b, err := New(sampleRate, []BandParams{
		{Kind: Highpass, Frequency: hpHz, Q: design.DefaultQ, Gain: 1, Enabled: true},
		{Kind: Lowpass, Frequency: lpHz, Q: design.DefaultQ, Gain: 1, Enabled: true},
	})
	if err != nil {
		return nil, err
	}

	lo, hi := b.Band(0).Frequency, b.Band(1).Frequency
	if hi > lo {
		b.span.Store(&freqRange{min: lo, max: hi})
	}

	return b, nil
}

// NewFilterbank builds n peaking bands log-spaced between minHz and maxHz.
// Every band starts flat (gain 1) with a Q matching the band spacing, so the
// fresh bank is an identity filter.
func NewFilterbank(sampleRate float64, n int, minHz, maxHz float64) (*Bank, error) {
	if n < 1 || n > MaxBands {
		return nil, fmt.Errorf("band count %d not in [1, %d]: %w", n, MaxBands, ErrInvalidBank)
	}
	if !(minHz > 0) || !(maxHz > minHz) || math.IsInf(maxHz, 0) {
		return nil, fmt.Errorf("range [%v, %v]: %w", minHz, maxHz, ErrInvalidBank)
	}

	centers := LogSpaced(n, minHz, maxHz)
	q := spacingQ(n, minHz, maxHz)

	params := make([]BandParams, n)
	for i, f := range centers {
		params[i] = BandParams{Kind: Peak, Frequency: f, Q: q, Gain: 1, Enabled: true}
	}

	b, err := New(sampleRate, params)
	if err != nil {
		return nil, err
	}

	lo, hi := b.clampRange(minHz, maxHz)
	b.span.Store(&freqRange{min: lo, max: hi})

	return b, nil
}

// LogSpaced returns n frequencies evenly spaced on a log axis between minHz
// and maxHz inclusive. A single band sits at the geometric mean.
func LogSpaced(n int, minHz, maxHz float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{math.Sqrt(minHz * maxHz)}
	}

	out := make([]float64, n)
	ratio := math.Log(maxHz / minHz)
	for i := range out {
		out[i] = minHz * math.Exp(ratio*float64(i)/float64(n-1))
	}
	return out
}

// spacingQ is the Q whose bandwidth equals the distance between neighboring
// log-spaced centers.
func spacingQ(n int, minHz, maxHz float64) float64 {
	if n < 2 {
		return design.DefaultQ
	}
	octaves := math.Log2(maxHz/minHz) / float64(n-1)
	r := math.Exp2(octaves)
	return core.Clamp(math.Sqrt(r)/(r-1), MinQ, MaxQ)
}

// Len returns the number of bands.
func (b *Bank) Len() int { return len(b.bands) }

// SampleRate returns the sample rate in Hz.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// Range returns the frequency range used by Rescale.
func (b *Bank) Range() (minHz, maxHz float64) {
	r := b.span.Load()
	return r.min, r.max
}

// Band returns the current parameters of band i, or the zero value if i is
// out of range.
func (b *Bank) Band(i int) BandParams {
	if i < 0 || i >= len(b.bands) {
		return BandParams{}
	}
	return b.bands[i].state.Load().params
}

// Coefficients returns the coefficients currently published for band i.
// Inactive bands report biquad.Identity.
func (b *Bank) Coefficients(i int) biquad.Coefficients {
	if i < 0 || i >= len(b.bands) {
		return biquad.Identity
	}
	st := b.bands[i].state.Load()
	if !st.active {
		return biquad.Identity
	}
	return st.coeffs
}

// SetCutoff sets the cutoff or center frequency of band i in Hz.
func (b *Bank) SetCutoff(i int, hz float64) {
	b.update(i, func(p *BandParams) { p.Frequency = hz })
}

// SetQ sets the quality factor of band i.
func (b *Bank) SetQ(i int, q float64) {
	b.update(i, func(p *BandParams) { p.Q = q })
}

// SetGain sets the linear gain of band i.
func (b *Bank) SetGain(i int, g float64) {
	b.update(i, func(p *BandParams) { p.Gain = g })
}

// SetEnabled switches band i in or out of the cascade.
func (b *Bank) SetEnabled(i int, enabled bool) {
	b.update(i, func(p *BandParams) { p.Enabled = enabled })
}

// SetKind changes the response type of band i. Unknown kinds are ignored.
func (b *Bank) SetKind(i int, k Kind) {
	if !k.Valid() {
		return
	}
	b.update(i, func(p *BandParams) { p.Kind = k })
}

// Rescale remaps every band frequency from the current range into
// [minHz, maxHz], proportionally on a log axis. Band order is preserved.
// Rescaling to the current range leaves every band untouched. Invalid
// ranges are ignored.
func (b *Bank) Rescale(minHz, maxHz float64) {
	if !(minHz > 0) || !(maxHz > minHz) || math.IsInf(maxHz, 0) {
		return
	}
	lo, hi := b.clampRange(minHz, maxHz)
	if !(hi > lo) {
		return
	}

	for {
		old := b.span.Load()
		if old.min == lo && old.max == hi {
			return
		}
		next := &freqRange{min: lo, max: hi}
		if !b.span.CompareAndSwap(old, next) {
			continue
		}

		oldLog := math.Log(old.max / old.min)
		newLog := math.Log(hi / lo)
		for i := range b.bands {
			b.update(i, func(p *BandParams) {
				pos := math.Log(p.Frequency/old.min) / oldLog
				p.Frequency = lo * math.Exp(pos*newLog)
			})
		}
		return
	}
}

// ResponseDB returns the combined magnitude response of all active bands in
// dB at each frequency. Values are floored at -120 dB.
func (b *Bank) ResponseDB(freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	for i := range b.bands {
		st := b.bands[i].state.Load()
		if !st.active {
			continue
		}
		for j, f := range freqs {
			out[j] += st.coeffs.MagnitudeDB(f, b.sampleRate)
		}
	}
	for j, v := range out {
		if math.IsNaN(v) || v < responseFloorDB {
			out[j] = responseFloorDB
		}
	}
	return out
}

// ProcessSample filters one sample through the cascade. It must be called
// from the processing goroutine only.
func (b *Bank) ProcessSample(x float64) float64 {
	for i := range b.bands {
		bd := &b.bands[i]
		if !bd.prepare() {
			continue
		}
		x = bd.section.ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place through the cascade. Band parameters are
// sampled once per call. It must be called from the processing goroutine
// only. Zero-alloc.
func (b *Bank) ProcessBlock(buf []float64) {
	for i := range b.bands {
		bd := &b.bands[i]
		if !bd.prepare() {
			continue
		}
		bd.section.ProcessBlock(buf)
		bd.section.Recover()
	}
}

// Reset clears the state of every band. It must be called from the
// processing goroutine, or while processing is stopped.
func (b *Bank) Reset() {
	for i := range b.bands {
		b.bands[i].section.Reset()
	}
}

// prepare loads the published coefficients into the section and reports
// whether the band takes part in processing. A band that comes back after
// being inactive starts from a clean state.
func (bd *band) prepare() bool {
	st := bd.state.Load()
	if !st.active {
		bd.wasActive = false
		return false
	}
	if !bd.wasActive {
		bd.section.Reset()
		bd.wasActive = true
	}
	bd.section.Coefficients = st.coeffs
	return true
}

func (b *Bank) update(i int, mutate func(*BandParams)) {
	if i < 0 || i >= len(b.bands) {
		return
	}
	bd := &b.bands[i]
	for {
		old := bd.state.Load()
		p := old.params
		mutate(&p)
		if bd.state.CompareAndSwap(old, b.design(p)) {
			return
		}
	}
}

func (b *Bank) design(p BandParams) *bandState {
	if !p.Kind.Valid() {
		p.Kind = Bypass
	}
	p.Frequency = core.ClampFinite(p.Frequency, MinFrequency, b.maxFrequency(), MinFrequency)
	p.Q = core.ClampFinite(p.Q, MinQ, MaxQ, design.DefaultQ)
	p.Gain = core.ClampFinite(p.Gain, MinGain, MaxGain, 1)

	st := &bandState{params: p, active: p.Enabled && p.Kind != Bypass}
	if !st.active {
		st.coeffs = biquad.Identity
		return st
	}

	switch p.Kind {
	case Lowpass:
		st.coeffs = design.Lowpass(p.Frequency, p.Q, b.sampleRate).Scaled(p.Gain)
	case Highpass:
		st.coeffs = design.Highpass(p.Frequency, p.Q, b.sampleRate).Scaled(p.Gain)
	case Bandpass:
		st.coeffs = design.Bandpass(p.Frequency, p.Q, b.sampleRate).Scaled(p.Gain)
	case Peak:
		st.coeffs = design.Peak(p.Frequency, peakDB(p.Gain), p.Q, b.sampleRate)
	}

	if !st.coeffs.IsFinite() || !st.coeffs.IsStable() {
		st.coeffs = biquad.Identity
	}
	return st
}

func peakDB(gain float64) float64 {
	if gain <= 0 {
		return minPeakDB
	}
	return math.Max(core.LinearToDB(gain), minPeakDB)
}

func (b *Bank) maxFrequency() float64 {
	return MaxFrequencyRatio * b.sampleRate
}

func (b *Bank) clampRange(minHz, maxHz float64) (float64, float64) {
	hiLimit := b.maxFrequency()
	return core.Clamp(minHz, MinFrequency, hiLimit), core.Clamp(maxHz, MinFrequency, hiLimit)
}
