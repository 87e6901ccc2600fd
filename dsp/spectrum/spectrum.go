package spectrum

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/soundfx/dsp/window"
)

const (
	// FloorDB is the lowest level MagnitudeDB reports.
	FloorDB = -130.0

	minSize = 16
	maxSize = 1 << 16
)

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	window window.Type
}

// WithWindow selects the analysis window. Default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// Analyzer turns a frame of time-domain samples into a dBFS magnitude
// spectrum with Size()/2+1 bins.
type Analyzer struct {
	mu sync.Mutex

	size int
	plan *algofft.Plan[complex128]
	win  []float64
	norm float64

	in, out []complex128
	re, im  []float64
	mag     []float64
}

// NewAnalyzer creates an analyzer for frames of size samples. size must be a
// power of two in [16, 65536].
func NewAnalyzer(size int, opts ...Option) (*Analyzer, error) {
	if size < minSize || size > maxSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum size must be a power of two in [%d, %d]: %d", minSize, maxSize, size)
	}

	cfg := config{window: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum init fft plan: %w", err)
	}

	win := window.Generate(cfg.window, size, window.WithPeriodic())
	gain := window.CoherentGain(win)
	if gain <= 0 {
		return nil, fmt.Errorf("spectrum window has no coherent gain")
	}

	bins := size/2 + 1

	return &Analyzer{
		size: size,
		plan: plan,
		win:  win,
		// A full-scale sine lands at 0 dBFS.
		norm: 2 / (float64(size) * gain),
		in:   make([]complex128, size),
		out:  make([]complex128, size),
		re:   make([]float64, bins),
		im:   make([]float64, bins),
		mag:  make([]float64, bins),
	}, nil
}

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of magnitude bins, Size()/2+1.
func (a *Analyzer) Bins() int { return a.size/2 + 1 }

// BinFrequency returns the center frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(a.size)
}

// MagnitudeDB analyzes frame and writes up to Bins() dBFS values into dst,
// returning the number written. The newest Size() samples of frame are used;
// a shorter frame is zero-padded in front.
func (a *Analyzer) MagnitudeDB(dst []float64, frame []float32) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(frame) > a.size {
		frame = frame[len(frame)-a.size:]
	}
	pad := a.size - len(frame)
	for i := range pad {
		a.in[i] = 0
	}
	for i, x := range frame {
		j := pad + i
		a.in[j] = complex(float64(x)*a.win[j], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0, fmt.Errorf("spectrum forward fft: %w", err)
	}

	bins := a.Bins()
	for k := range bins {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}
	vecmath.Magnitude(a.mag, a.re, a.im)

	n := min(len(dst), bins)
	for k := range n {
		m := a.mag[k] * a.norm
		if k == 0 || k == bins-1 {
			m /= 2
		}
		db := FloorDB
		if m > 0 {
			db = math.Max(20*math.Log10(m), FloorDB)
		}
		dst[k] = db
	}

	return n, nil
}
