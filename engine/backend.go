package engine

import "errors"

// RenderFunc processes one interleaved buffer. in may be empty for
// output-only devices.
type RenderFunc func(in, out []float32)

// Backend drives a RenderFunc from an audio device.
//
// Open starts the device session and prepares a stream for cfg; it is called
// once per engine. Start and Stop may be called repeatedly in between. Stop
// must not return while a render is still writing to the device buffer.
type Backend interface {
	Open(cfg Config, render RenderFunc) error
	Start() error
	Stop() error
	Close() error
}

// Source produces interleaved input frames for output-only backends.
type Source interface {
	Fill(dst []float32)
}

var (
	// ErrNotOpen is returned when a backend is started before Open.
	ErrNotOpen = errors.New("backend not open")
	// ErrNotRunning is returned by ManualBackend.Pump while stopped.
	ErrNotRunning = errors.New("backend not running")
)
