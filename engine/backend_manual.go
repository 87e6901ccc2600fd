package engine

import (
	"fmt"
	"sync"
)

// ManualBackend has no device. Each Pump call runs the render function
// synchronously on the calling goroutine. It serves tests and offline
// rendering.
type ManualBackend struct {
	mu       sync.Mutex
	render   RenderFunc
	channels int
	frames   int
	running  bool
	out      []float32
}

// NewManualBackend returns an unopened ManualBackend.
func NewManualBackend() *ManualBackend {
	return &ManualBackend{}
}

// Open stores render and allocates one BufferSize output buffer.
func (m *ManualBackend) Open(cfg Config, render RenderFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if render == nil {
		return fmt.Errorf("manual backend: nil render function")
	}
	m.render = render
	m.channels = cfg.Channels
	m.frames = cfg.BufferSize
	m.out = make([]float32, cfg.BufferSize*cfg.Channels)
	return nil
}

// Start enables Pump.
func (m *ManualBackend) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.render == nil {
		return ErrNotOpen
	}
	m.running = true
	return nil
}

// Stop disables Pump. A Pump in progress completes first.
func (m *ManualBackend) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	return nil
}

// Close releases the render function.
func (m *ManualBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	m.render = nil
	m.out = nil
	return nil
}

// Running reports whether Pump is enabled.
func (m *ManualBackend) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.running
}

// Pump renders one buffer of BufferSize frames from in and returns the
// backend-owned output buffer, valid until the next Pump.
func (m *ManualBackend) Pump(in []float32) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, ErrNotRunning
	}
	m.render(in, m.out)
	return m.out, nil
}

// PumpInto renders len(out)/channels frames from in into out.
func (m *ManualBackend) PumpInto(in, out []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return ErrNotRunning
	}
	m.render(in, out)
	return nil
}
