package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/soundfx/dsp/core"
	"github.com/cwbudde/soundfx/dsp/delay"
	"github.com/cwbudde/soundfx/dsp/effects"
	"github.com/cwbudde/soundfx/dsp/effects/modulation"
	"github.com/cwbudde/soundfx/dsp/filter/bank"
	"github.com/cwbudde/soundfx/dsp/spectrum"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("engine closed")

// Stage identifies one stage of the processing chain.
type Stage int

const (
	StageFilter Stage = iota
	StageModulation
	StageDistortion
	StageDelay
)

var stageNames = [...]string{"filter", "modulation", "distortion", "delay"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage resolves a stage name.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", name)
}

// Stats are cumulative render counters.
type Stats struct {
	Callbacks        uint64
	Frames           uint64
	SanitizedSamples uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithBackend sets the audio device backend. The default is a ManualBackend.
func WithBackend(b Backend) Option {
	return func(e *Engine) {
		if b != nil {
			e.backend = b
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine runs the effects chain Filter → Modulation → Distortion → Delay on
// every hardware buffer.
//
// Render is called by the backend on its audio goroutine. Every other method
// is meant for control goroutines and never blocks the render path for more
// than one snapshot copy.
type Engine struct {
	cfg     Config
	backend Backend
	log     *logrus.Entry

	mu      sync.Mutex
	opened  bool
	running atomic.Bool
	closed  bool

	inputEnabled  atomic.Bool
	outputEnabled atomic.Bool
	stageEnabled  [len(stageNames)]atomic.Bool

	filters    *bank.Bank
	modulator  *modulation.RingModulator
	distortion *effects.Distortion
	delay      *delay.Line

	// Render-goroutine scratch.
	mono    []float64
	carrier []float64
	wet     []float64

	inputSnap  *Snapshot
	outputSnap *Snapshot
	modSnap    *Snapshot
	delaySnap  *Snapshot

	specMu   sync.Mutex
	analyzer *spectrum.Analyzer
	specBuf  []float32

	levelMu  sync.Mutex
	levelBuf []float32

	callbacks atomic.Uint64
	frames    atomic.Uint64
	sanitized atomic.Uint64
}

// New validates cfg and allocates every buffer and stage of the chain.
// Input, output and all stages start enabled.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.resolved()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg: cfg,
		log: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.backend == nil {
		e.backend = NewManualBackend()
	}

	var err error
	switch cfg.FilterLayout {
	case FilterbankLayout:
		e.filters, err = bank.NewFilterbank(cfg.SampleRate, cfg.NumFilterBands, cfg.FilterMinHz, cfg.FilterMaxHz)
	default:
		e.filters, err = bank.NewTone(cfg.SampleRate, cfg.FilterMinHz, cfg.FilterMaxHz)
	}
	if err != nil {
		return nil, fmt.Errorf("filter stage: %w", errors.Join(ErrInvalidConfig, err))
	}

	e.modulator, err = modulation.NewRingModulator(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("modulation stage: %w", errors.Join(ErrInvalidConfig, err))
	}

	e.distortion, err = effects.NewDistortion()
	if err != nil {
		return nil, fmt.Errorf("distortion stage: %w", err)
	}
	e.distortion.SetPreGain(cfg.PreGain)
	e.distortion.SetPostGain(cfg.PostGain)
	e.distortion.SetClipLevel(cfg.ClippingAmplitude)

	e.delay, err = delay.New(cfg.DelayCapacity(), delay.WithTaps(cfg.NumDelayTaps))
	if err != nil {
		return nil, fmt.Errorf("delay stage: %w", errors.Join(ErrInvalidConfig, err))
	}

	e.analyzer, err = spectrum.NewAnalyzer(cfg.SpectrumSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", errors.Join(ErrInvalidConfig, err))
	}
	e.specBuf = make([]float32, cfg.SpectrumSize)
	e.levelBuf = make([]float32, cfg.SnapshotLength)

	e.mono = make([]float64, cfg.BufferSize)
	e.carrier = make([]float64, cfg.BufferSize)
	e.wet = make([]float64, cfg.BufferSize)
	e.inputSnap = NewSnapshot(cfg.SnapshotLength)
	e.outputSnap = NewSnapshot(cfg.SnapshotLength)
	e.modSnap = NewSnapshot(cfg.SnapshotLength)
	e.delaySnap = NewSnapshot(cfg.SnapshotLength)

	e.inputEnabled.Store(true)
	e.outputEnabled.Store(true)
	for i := range e.stageEnabled {
		e.stageEnabled[i].Store(true)
	}

	e.log.WithFields(logrus.Fields{
		"function":      "New",
		"sample_rate":   cfg.SampleRate,
		"buffer_size":   cfg.BufferSize,
		"channels":      cfg.Channels,
		"filter_layout": cfg.FilterLayout.String(),
		"filter_bands":  e.filters.Len(),
		"delay_taps":    cfg.NumDelayTaps,
	}).Info("Audio engine created")

	return e, nil
}

// Config returns the session configuration.
func (e *Engine) Config() Config { return e.cfg }

// Start opens the backend on first use and starts the stream. Starting a
// running engine is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.running.Load() {
		return nil
	}

	if !e.opened {
		if err := e.backend.Open(e.cfg, e.Render); err != nil {
			e.log.WithFields(logrus.Fields{
				"function": "Engine.Start",
				"error":    err.Error(),
			}).Error("Failed to open audio backend")
			return fmt.Errorf("open backend: %w", err)
		}
		e.opened = true
	}

	if err := e.backend.Start(); err != nil {
		e.log.WithFields(logrus.Fields{
			"function": "Engine.Start",
			"error":    err.Error(),
		}).Error("Failed to start audio stream")
		return fmt.Errorf("start backend: %w", err)
	}
	e.running.Store(true)

	e.log.WithFields(logrus.Fields{
		"function": "Engine.Start",
	}).Info("Audio engine started")

	return nil
}

// Stop halts future callbacks. A callback already in progress completes.
// The oscillator phase is reset. Stopping a stopped engine is a no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stopLocked()
}

func (e *Engine) stopLocked() error {
	if !e.running.Load() {
		return nil
	}

	if err := e.backend.Stop(); err != nil {
		e.log.WithFields(logrus.Fields{
			"function": "Engine.Stop",
			"error":    err.Error(),
		}).Error("Failed to stop audio stream")
		return fmt.Errorf("stop backend: %w", err)
	}
	e.running.Store(false)
	e.modulator.Reset()

	stats := e.Stats()
	e.log.WithFields(logrus.Fields{
		"function":  "Engine.Stop",
		"callbacks": stats.Callbacks,
		"frames":    stats.Frames,
		"sanitized": stats.SanitizedSamples,
	}).Info("Audio engine stopped")

	return nil
}

// Close stops the engine and releases the backend session. Close is
// idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	stopErr := e.stopLocked()

	var closeErr error
	if e.opened {
		if err := e.backend.Close(); err != nil {
			closeErr = fmt.Errorf("close backend: %w", err)
		}
		e.opened = false
	}
	e.closed = true

	e.log.WithFields(logrus.Fields{
		"function": "Engine.Close",
	}).Info("Audio engine closed")

	return errors.Join(stopErr, closeErr)
}

// IsRunning reports whether the stream is started.
func (e *Engine) IsRunning() bool { return e.running.Load() }

// SetInputEnabled switches the input. A disabled input feeds silence into
// the chain.
func (e *Engine) SetInputEnabled(enabled bool) {
	if e.inputEnabled.Swap(enabled) != enabled {
		e.log.WithFields(logrus.Fields{
			"function": "SetInputEnabled",
			"enabled":  enabled,
		}).Info("Input toggled")
	}
}

// SetOutputEnabled switches the output. A disabled output writes silence to
// the device while the chain keeps running.
func (e *Engine) SetOutputEnabled(enabled bool) {
	if e.outputEnabled.Swap(enabled) != enabled {
		e.log.WithFields(logrus.Fields{
			"function": "SetOutputEnabled",
			"enabled":  enabled,
		}).Info("Output toggled")
	}
}

// InputEnabled reports whether input is enabled.
func (e *Engine) InputEnabled() bool { return e.inputEnabled.Load() }

// OutputEnabled reports whether output is enabled.
func (e *Engine) OutputEnabled() bool { return e.outputEnabled.Load() }

// SetStageEnabled switches one stage in or out of the chain.
func (e *Engine) SetStageEnabled(s Stage, enabled bool) {
	if s < 0 || int(s) >= len(e.stageEnabled) {
		return
	}
	if e.stageEnabled[s].Swap(enabled) != enabled {
		e.log.WithFields(logrus.Fields{
			"function": "SetStageEnabled",
			"stage":    s.String(),
			"enabled":  enabled,
		}).Info("Stage toggled")
	}
}

// StageEnabled reports whether stage s is enabled.
func (e *Engine) StageEnabled(s Stage) bool {
	if s < 0 || int(s) >= len(e.stageEnabled) {
		return false
	}
	return e.stageEnabled[s].Load()
}

// SetFilterEnabled switches the filter stage.
func (e *Engine) SetFilterEnabled(enabled bool) { e.SetStageEnabled(StageFilter, enabled) }

// SetModulationEnabled switches the ring modulation stage.
func (e *Engine) SetModulationEnabled(enabled bool) { e.SetStageEnabled(StageModulation, enabled) }

// SetDistortionEnabled switches the distortion stage.
func (e *Engine) SetDistortionEnabled(enabled bool) { e.SetStageEnabled(StageDistortion, enabled) }

// SetDelayEnabled switches the delay stage.
func (e *Engine) SetDelayEnabled(enabled bool) { e.SetStageEnabled(StageDelay, enabled) }

// Stats returns the render counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Callbacks:        e.callbacks.Load(),
		Frames:           e.frames.Load(),
		SanitizedSamples: e.sanitized.Load(),
	}
}

// Render processes one hardware buffer. in and out hold interleaved frames
// with Config().Channels channels; in may be shorter than out or empty, in
// which case the missing frames are silence. Buffers larger than BufferSize
// frames are processed in BufferSize chunks.
//
// Render does not allocate or log.
func (e *Engine) Render(in, out []float32) {
	ch := e.cfg.Channels
	frames := len(out) / ch
	inFrames := len(in) / ch
	useInput := e.inputEnabled.Load()
	faults := 0

	for start := 0; start < frames; start += e.cfg.BufferSize {
		n := min(e.cfg.BufferSize, frames-start)
		mono := e.mono[:n]

		got := 0
		if useInput && start < inFrames {
			got = core.Downmix(mono, in[start*ch:], ch)
		}
		core.Zero(mono[got:])

		faults += e.process(mono)

		dst := out[start*ch : (start+n)*ch]
		if e.outputEnabled.Load() {
			core.FanOut(dst, mono, ch)
		} else {
			core.Zero32(dst)
		}
	}
	core.Zero32(out[frames*ch:])

	e.callbacks.Add(1)
	e.frames.Add(uint64(frames))
	if faults > 0 {
		e.sanitized.Add(uint64(faults))
	}
}

// process runs one mono block through the chain in place and returns the
// number of non-finite samples that had to be zeroed.
func (e *Engine) process(mono []float64) int {
	faults := core.SanitizeBlock(mono, OutputCeiling)
	e.inputSnap.Write(mono)

	if e.stageEnabled[StageFilter].Load() {
		e.filters.ProcessBlock(mono)
		faults += core.SanitizeBlock(mono, OutputCeiling)
	}

	carrier := e.carrier[:len(mono)]
	if e.stageEnabled[StageModulation].Load() {
		e.modulator.ProcessBlock(mono, carrier)
		faults += core.SanitizeBlock(mono, OutputCeiling)
	} else {
		core.Zero(carrier)
	}
	e.modSnap.Write(carrier)

	if e.stageEnabled[StageDistortion].Load() {
		e.distortion.ProcessInPlace(mono)
		faults += core.SanitizeBlock(mono, OutputCeiling)
	}

	wet := e.wet[:len(mono)]
	if e.stageEnabled[StageDelay].Load() {
		e.delay.ProcessBlockWet(mono, wet)
		faults += core.SanitizeBlock(mono, OutputCeiling)
	} else {
		core.Zero(wet)
	}
	e.delaySnap.Write(wet)

	e.outputSnap.Write(mono)

	return faults
}
