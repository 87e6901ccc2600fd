package effects

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/soundfx/dsp/core"
)

const (
	defaultDistortionPreGain   = 1.0
	defaultDistortionPostGain  = 1.0
	defaultDistortionClipLevel = 1.0

	MinDistortionPreGain   = 0.0
	MaxDistortionPreGain   = 20.0
	MinDistortionPostGain  = 0.0
	MaxDistortionPostGain  = 4.0
	MinDistortionClipLevel = 0.001
	MaxDistortionClipLevel = 1.0
)

// DistortionMode selects the transfer function used by Distortion.
type DistortionMode int32

const (
	// DistortionModeHardClip clamps the driven signal to ±clip.
	DistortionModeHardClip DistortionMode = iota
	// DistortionModeSoftClip saturates with clip*tanh(x/clip).
	DistortionModeSoftClip
)

func (m DistortionMode) String() string {
	switch m {
	case DistortionModeHardClip:
		return "hard"
	case DistortionModeSoftClip:
		return "soft"
	default:
		return fmt.Sprintf("DistortionMode(%d)", int32(m))
	}
}

func validDistortionMode(m DistortionMode) bool {
	return m == DistortionModeHardClip || m == DistortionModeSoftClip
}

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	mode      DistortionMode
	preGain   float64
	postGain  float64
	clipLevel float64
}

func defaultDistortionConfig() distortionConfig {
	return distortionConfig{
		mode:      DistortionModeHardClip,
		preGain:   defaultDistortionPreGain,
		postGain:  defaultDistortionPostGain,
		clipLevel: defaultDistortionClipLevel,
	}
}

// WithDistortionMode selects the distortion transfer mode.
func WithDistortionMode(mode DistortionMode) DistortionOption {
	return func(cfg *distortionConfig) error {
		if !validDistortionMode(mode) {
			return fmt.Errorf("distortion mode is invalid: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithDistortionPreGain sets the input gain in [0, 20].
func WithDistortionPreGain(gain float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := checkRange("pre-gain", gain, MinDistortionPreGain, MaxDistortionPreGain); err != nil {
			return err
		}

		cfg.preGain = gain

		return nil
	}
}

// WithDistortionPostGain sets the output gain in [0, 4].
func WithDistortionPostGain(gain float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := checkRange("post-gain", gain, MinDistortionPostGain, MaxDistortionPostGain); err != nil {
			return err
		}

		cfg.postGain = gain

		return nil
	}
}

// WithDistortionClipLevel sets the clipping amplitude in [0.001, 1].
func WithDistortionClipLevel(level float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := checkRange("clip level", level, MinDistortionClipLevel, MaxDistortionClipLevel); err != nil {
			return err
		}

		cfg.clipLevel = level

		return nil
	}
}

func checkRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi || math.IsNaN(v) {
		return fmt.Errorf("distortion %s must be in [%g, %g]: %f", name, lo, hi, v)
	}
	return nil
}

// Distortion is the gain stage of the chain: pre-gain, clipper, post-gain.
//
//	hard: y = clamp(x*pre, -clip, clip) * post
//	soft: y = clip * tanh(x*pre/clip) * post
//
// In both modes |y| <= clip*post. Parameters may be changed from any
// goroutine; there is no smoothing, so large jumps can click.
type Distortion struct {
	mode      atomic.Int32
	preGain   core.AtomicFloat64
	postGain  core.AtomicFloat64
	clipLevel core.AtomicFloat64
}

// NewDistortion creates a distortion stage with optional overrides.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := defaultDistortionConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	d := &Distortion{}
	d.mode.Store(int32(cfg.mode))
	d.preGain.Store(cfg.preGain)
	d.postGain.Store(cfg.postGain)
	d.clipLevel.Store(cfg.clipLevel)

	return d, nil
}

// SetMode selects the transfer mode. Unknown modes are ignored.
func (d *Distortion) SetMode(mode DistortionMode) {
	if validDistortionMode(mode) {
		d.mode.Store(int32(mode))
	}
}

// SetPreGain sets the input gain, clamped to [0, 20]. NaN is ignored.
func (d *Distortion) SetPreGain(gain float64) {
	if !math.IsNaN(gain) {
		d.preGain.Store(core.Clamp(gain, MinDistortionPreGain, MaxDistortionPreGain))
	}
}

// SetPostGain sets the output gain, clamped to [0, 4]. NaN is ignored.
func (d *Distortion) SetPostGain(gain float64) {
	if !math.IsNaN(gain) {
		d.postGain.Store(core.Clamp(gain, MinDistortionPostGain, MaxDistortionPostGain))
	}
}

// SetClipLevel sets the clipping amplitude, clamped to [0.001, 1]. NaN is
// ignored.
func (d *Distortion) SetClipLevel(level float64) {
	if !math.IsNaN(level) {
		d.clipLevel.Store(core.Clamp(level, MinDistortionClipLevel, MaxDistortionClipLevel))
	}
}

// Mode returns the transfer mode.
func (d *Distortion) Mode() DistortionMode { return DistortionMode(d.mode.Load()) }

// PreGain returns the input gain.
func (d *Distortion) PreGain() float64 { return d.preGain.Load() }

// PostGain returns the output gain.
func (d *Distortion) PostGain() float64 { return d.postGain.Load() }

// ClipLevel returns the clipping amplitude.
func (d *Distortion) ClipLevel() float64 { return d.clipLevel.Load() }

// ProcessSample processes one sample.
func (d *Distortion) ProcessSample(x float64) float64 {
	return shape(d.Mode(), x, d.preGain.Load(), d.clipLevel.Load(), d.postGain.Load())
}

// ProcessInPlace applies the stage to buf in place. Parameters are sampled
// once per call. Zero-alloc.
func (d *Distortion) ProcessInPlace(buf []float64) {
	mode := d.Mode()
	pre := d.preGain.Load()
	clip := d.clipLevel.Load()
	post := d.postGain.Load()

	for i, x := range buf {
		buf[i] = shape(mode, x, pre, clip, post)
	}
}

func shape(mode DistortionMode, x, pre, clip, post float64) float64 {
	v := x * pre
	if math.IsNaN(v) {
		return 0
	}

	switch mode {
	case DistortionModeSoftClip:
		v = clip * math.Tanh(v/clip)
	default:
		v = core.Clamp(v, -clip, clip)
	}

	return v * post
}
