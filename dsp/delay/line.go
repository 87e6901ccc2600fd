package delay

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/soundfx/dsp/core"
)

const (
	// MaxTaps is the largest number of read taps a Line supports.
	MaxTaps = 16

	// MaxFeedback bounds the feedback coefficient below 1.
	MaxFeedback = 0.99

	defaultTaps    = 4
	defaultTapGain = 0.5
)

type tap struct {
	offset  atomic.Int64
	gain    core.AtomicFloat64
	enabled atomic.Bool
}

// tapView is a per-block copy of one tap's parameters.
type tapView struct {
	offset int
	gain   float64
}

// Line is a fixed-capacity circular delay line with one write cursor and
// several independently offset read taps.
//
// Tap and feedback setters are safe to call from a control goroutine while
// another goroutine runs ProcessSample/ProcessBlock. Write, ReadTap, Mix and
// the Process methods themselves must stay on a single goroutine.
type Line struct {
	buffer   []float64
	writePos int

	taps     []tap
	feedback core.AtomicFloat64
}

// Option configures a Line at construction time.
type Option func(*lineConfig)

type lineConfig struct {
	taps     int
	feedback float64
}

// WithTaps sets the number of taps in [1, MaxTaps]. Defaults to 4.
func WithTaps(n int) Option {
	return func(cfg *lineConfig) {
		if n >= 1 && n <= MaxTaps {
			cfg.taps = n
		}
	}
}

// WithFeedback sets the initial feedback coefficient (clamped to
// [0, MaxFeedback]).
func WithFeedback(f float64) Option {
	return func(cfg *lineConfig) {
		cfg.feedback = f
	}
}

// New returns a delay line holding capacity samples. Taps start at evenly
// spaced offsets with gain 0.5; only the first tap is enabled.
func New(capacity int, opts ...Option) (*Line, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", capacity)
	}

	cfg := lineConfig{taps: defaultTaps}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	d := &Line{
		buffer: make([]float64, capacity),
		taps:   make([]tap, cfg.taps),
	}

	for i := range d.taps {
		offset := (i + 1) * capacity / cfg.taps
		d.taps[i].offset.Store(int64(max(offset, 1)))
		d.taps[i].gain.Store(defaultTapGain)
	}
	d.taps[0].enabled.Store(true)
	d.SetFeedback(cfg.feedback)

	return d, nil
}

// Len returns internal buffer size, which is also the longest tap delay.
func (d *Line) Len() int {
	return len(d.buffer)
}

// NumTaps returns the number of taps.
func (d *Line) NumTaps() int {
	return len(d.taps)
}

// Write stores one sample at the cursor and advances it.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay samples ago. Read(1) is the most
// recent sample, Read(Len()) the oldest.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay%size + size) % size
	return d.buffer[readPos]
}

// ReadTap returns the sample under tap i. Out-of-range indices read 0.
func (d *Line) ReadTap(i int) float64 {
	if i < 0 || i >= len(d.taps) {
		return 0
	}
	return d.Read(int(d.taps[i].offset.Load()))
}

// Mix returns the gain-weighted sum of all enabled taps.
func (d *Line) Mix() float64 {
	var views [MaxTaps]tapView
	n, _ := d.loadTaps(&views)

	return d.mix(views[:n])
}

// ProcessSample reads the tap mix, writes the input plus scaled feedback,
// and returns the input with the mix added.
func (d *Line) ProcessSample(x float64) float64 {
	var views [MaxTaps]tapView
	n, norm := d.loadTaps(&views)
	fb := d.feedback.Load() / norm

	wet := d.mix(views[:n])
	d.Write(x + fb*wet)

	return x + wet
}

// ProcessBlock runs ProcessSample over buf in place. Tap parameters are
// sampled once per block.
func (d *Line) ProcessBlock(buf []float64) {
	d.ProcessBlockWet(buf, nil)
}

// ProcessBlockWet is ProcessBlock that also stores the tap mix of every
// sample in wet. wet may be nil, otherwise it must hold len(buf) samples.
func (d *Line) ProcessBlockWet(buf, wet []float64) {
	var views [MaxTaps]tapView
	n, norm := d.loadTaps(&views)
	fb := d.feedback.Load() / norm
	active := views[:n]

	if wet != nil {
		wet = wet[:len(buf)]
	}

	for i, x := range buf {
		w := d.mix(active)
		d.Write(x + fb*w)
		buf[i] = x + w
		if wet != nil {
			wet[i] = w
		}
	}
}

// SetTapDelay sets tap i's offset in samples, clamped to [1, Len()].
func (d *Line) SetTapDelay(i, samples int) {
	if i < 0 || i >= len(d.taps) {
		return
	}
	samples = max(1, min(samples, len(d.buffer)))
	d.taps[i].offset.Store(int64(samples))
}

// SetTapTime sets tap i's delay in seconds at the given sample rate. Delays
// longer than the line are clamped to Len() samples.
func (d *Line) SetTapTime(i int, seconds, sampleRate float64) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return
	}
	maxSeconds := float64(len(d.buffer)) / sampleRate
	seconds = core.ClampFinite(seconds, 0, maxSeconds, 0)
	d.SetTapDelay(i, int(math.Round(seconds*sampleRate)))
}

// TapDelay returns tap i's offset in samples.
func (d *Line) TapDelay(i int) int {
	if i < 0 || i >= len(d.taps) {
		return 0
	}
	return int(d.taps[i].offset.Load())
}

// SetTapGain sets tap i's gain, clamped to [-1, 1].
func (d *Line) SetTapGain(i int, gain float64) {
	if i < 0 || i >= len(d.taps) {
		return
	}
	d.taps[i].gain.Store(core.ClampFinite(gain, -1, 1, 0))
}

// TapGain returns tap i's gain.
func (d *Line) TapGain(i int) float64 {
	if i < 0 || i >= len(d.taps) {
		return 0
	}
	return d.taps[i].gain.Load()
}

// SetTapEnabled enables or disables tap i.
func (d *Line) SetTapEnabled(i int, enabled bool) {
	if i < 0 || i >= len(d.taps) {
		return
	}
	d.taps[i].enabled.Store(enabled)
}

// TapEnabled reports whether tap i contributes to the mix.
func (d *Line) TapEnabled(i int) bool {
	if i < 0 || i >= len(d.taps) {
		return false
	}
	return d.taps[i].enabled.Load()
}

// SetFeedback sets the feedback coefficient, clamped to [0, MaxFeedback].
//
// The re-injected signal is feedback·mix / max(1, Σ|gain|), so the loop
// gain stays below 1 however many taps are enabled.
func (d *Line) SetFeedback(f float64) {
	d.feedback.Store(core.ClampFinite(f, 0, MaxFeedback, 0))
}

// Feedback returns the feedback coefficient.
func (d *Line) Feedback() float64 {
	return d.feedback.Load()
}

// Reset clears line state. Tap settings are kept.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Energy returns the sum of squares of the stored samples.
func (d *Line) Energy() float64 {
	e := 0.0
	for _, v := range d.buffer {
		e += v * v
	}
	return e
}

func (d *Line) loadTaps(views *[MaxTaps]tapView) (n int, norm float64) {
	for i := range d.taps {
		t := &d.taps[i]
		if !t.enabled.Load() {
			continue
		}

		g := t.gain.Load()
		views[n] = tapView{offset: int(t.offset.Load()), gain: g}
		norm += math.Abs(g)
		n++
	}

	if norm < 1 {
		norm = 1
	}

	return n, norm
}

func (d *Line) mix(views []tapView) float64 {
	size := len(d.buffer)
	wet := 0.0
	for _, v := range views {
		readPos := d.writePos - v.offset
		if readPos < 0 {
			readPos += size
		}
		wet += v.gain * d.buffer[readPos]
	}
	return wet
}
