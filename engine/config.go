package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/soundfx/dsp/delay"
	"github.com/cwbudde/soundfx/dsp/filter/bank"
)

// OutputCeiling bounds every sample leaving a stage of the chain.
const OutputCeiling = 4.0

var (
	// ErrUnsupportedFormat reports a stream format the engine cannot run.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrInvalidConfig reports an out-of-range configuration value.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)

var supportedSampleRates = []float64{22050, 32000, 44100, 48000, 88200, 96000}

// FilterLayout selects how the filter stage is built.
type FilterLayout int

const (
	// ToneLayout is a highpass at FilterMinHz followed by a lowpass at
	// FilterMaxHz.
	ToneLayout FilterLayout = iota
	// FilterbankLayout is NumFilterBands peaking bands log-spaced between
	// FilterMinHz and FilterMaxHz.
	FilterbankLayout
)

func (l FilterLayout) String() string {
	switch l {
	case ToneLayout:
		return "tone"
	case FilterbankLayout:
		return "filterbank"
	default:
		return fmt.Sprintf("FilterLayout(%d)", int(l))
	}
}

// Config is the session-wide stream and chain setup. It is fixed once an
// Engine has been created.
type Config struct {
	SampleRate float64
	// BufferSize is the number of frames per hardware buffer.
	BufferSize int
	// Channels is the interleaved channel count at the hardware boundary.
	Channels int

	ClippingAmplitude float64
	PreGain           float64
	PostGain          float64

	// SnapshotLength is the number of mono samples kept per snapshot. Zero
	// follows BufferSize.
	SnapshotLength int

	MaxDelaySeconds float64
	NumDelayTaps    int

	FilterLayout   FilterLayout
	NumFilterBands int
	FilterMinHz    float64
	FilterMaxHz    float64

	// SpectrumSize is the FFT size used by GetSpectrum.
	SpectrumSize int
}

// ConfigOption mutates a Config.
type ConfigOption func(*Config)

// DefaultConfig returns 44.1 kHz stereo with 1024-frame buffers and a tone
// filter layout.
func DefaultConfig() Config {
	return Config{
		SampleRate:        44100,
		BufferSize:        1024,
		Channels:          2,
		ClippingAmplitude: 1,
		PreGain:           1,
		PostGain:          1,
		SnapshotLength:    0,
		MaxDelaySeconds:   2,
		NumDelayTaps:      4,
		FilterLayout:      ToneLayout,
		NumFilterBands:    8,
		FilterMinHz:       20,
		FilterMaxHz:       18000,
		SpectrumSize:      1024,
	}
}

// NewConfig applies opts to DefaultConfig. Unless a snapshot length is
// given, the snapshot follows the buffer size.
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg.resolved()
}

// resolved fills in values that follow other fields.
func (c Config) resolved() Config {
	if c.SnapshotLength == 0 {
		c.SnapshotLength = c.BufferSize
	}
	return c
}

// WithSampleRate sets the stream sample rate in Hz.
func WithSampleRate(sr float64) ConfigOption {
	return func(c *Config) { c.SampleRate = sr }
}

// WithBufferSize sets the frames per hardware buffer.
func WithBufferSize(frames int) ConfigOption {
	return func(c *Config) { c.BufferSize = frames }
}

// WithChannels sets the interleaved channel count.
func WithChannels(n int) ConfigOption {
	return func(c *Config) { c.Channels = n }
}

// WithGains sets the initial pre-gain, post-gain and clipping amplitude.
func WithGains(pre, post, clip float64) ConfigOption {
	return func(c *Config) {
		c.PreGain = pre
		c.PostGain = post
		c.ClippingAmplitude = clip
	}
}

// WithSnapshotLength sets the number of samples retained per snapshot.
// Zero follows the buffer size.
func WithSnapshotLength(n int) ConfigOption {
	return func(c *Config) { c.SnapshotLength = n }
}

// WithDelay sets the maximum delay time and tap count.
func WithDelay(maxSeconds float64, taps int) ConfigOption {
	return func(c *Config) {
		c.MaxDelaySeconds = maxSeconds
		c.NumDelayTaps = taps
	}
}

// WithToneFilter selects the tone layout with the given corner frequencies.
func WithToneFilter(hpHz, lpHz float64) ConfigOption {
	return func(c *Config) {
		c.FilterLayout = ToneLayout
		c.FilterMinHz = hpHz
		c.FilterMaxHz = lpHz
	}
}

// WithFilterbank selects the filterbank layout.
func WithFilterbank(bands int, minHz, maxHz float64) ConfigOption {
	return func(c *Config) {
		c.FilterLayout = FilterbankLayout
		c.NumFilterBands = bands
		c.FilterMinHz = minHz
		c.FilterMaxHz = maxHz
	}
}

// WithSpectrumSize sets the FFT size used for spectrum reads.
func WithSpectrumSize(n int) ConfigOption {
	return func(c *Config) { c.SpectrumSize = n }
}

// Validate reports the first problem found in c. Format problems wrap
// ErrUnsupportedFormat, everything else wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if !supportedRate(c.SampleRate) {
		return fmt.Errorf("sample rate %v Hz: %w", c.SampleRate, ErrUnsupportedFormat)
	}
	if c.BufferSize < 64 || c.BufferSize > 8192 || c.BufferSize&(c.BufferSize-1) != 0 {
		return fmt.Errorf("buffer size %d is not a power of two in [64, 8192]: %w", c.BufferSize, ErrUnsupportedFormat)
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channel count %d: %w", c.Channels, ErrUnsupportedFormat)
	}

	for name, v := range map[string]float64{
		"clipping amplitude": c.ClippingAmplitude,
		"pre-gain":           c.PreGain,
		"post-gain":          c.PostGain,
		"max delay":          c.MaxDelaySeconds,
		"filter min":         c.FilterMinHz,
		"filter max":         c.FilterMaxHz,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s %v: %w", name, v, ErrInvalidConfig)
		}
	}

	if c.SnapshotLength < 0 {
		return fmt.Errorf("snapshot length %d: %w", c.SnapshotLength, ErrInvalidConfig)
	}
	if c.MaxDelaySeconds <= 0 || c.MaxDelaySeconds > 60 {
		return fmt.Errorf("max delay %v s not in (0, 60]: %w", c.MaxDelaySeconds, ErrInvalidConfig)
	}
	if c.NumDelayTaps < 1 || c.NumDelayTaps > delay.MaxTaps {
		return fmt.Errorf("delay taps %d not in [1, %d]: %w", c.NumDelayTaps, delay.MaxTaps, ErrInvalidConfig)
	}
	switch c.FilterLayout {
	case ToneLayout:
	case FilterbankLayout:
		if c.NumFilterBands < 1 || c.NumFilterBands > bank.MaxBands {
			return fmt.Errorf("filter bands %d not in [1, %d]: %w", c.NumFilterBands, bank.MaxBands, ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("filter layout %v: %w", c.FilterLayout, ErrInvalidConfig)
	}
	if c.FilterMinHz <= 0 || c.FilterMaxHz <= c.FilterMinHz {
		return fmt.Errorf("filter range [%v, %v]: %w", c.FilterMinHz, c.FilterMaxHz, ErrInvalidConfig)
	}
	if c.SpectrumSize < 16 || c.SpectrumSize > 1<<16 || c.SpectrumSize&(c.SpectrumSize-1) != 0 {
		return fmt.Errorf("spectrum size %d: %w", c.SpectrumSize, ErrInvalidConfig)
	}

	return nil
}

// DelayCapacity returns the delay line length in samples.
func (c Config) DelayCapacity() int {
	return int(math.Ceil(c.MaxDelaySeconds * c.SampleRate))
}

func supportedRate(sr float64) bool {
	for _, r := range supportedSampleRates {
		if sr == r {
			return true
		}
	}
	return false
}
