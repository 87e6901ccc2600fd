//go:build !headless

package engine

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

// PortAudioBackend runs a full-duplex PortAudio stream on the default input
// and output devices. The render function is called from PortAudio's
// callback thread with FramesPerBuffer = BufferSize.
type PortAudioBackend struct {
	mu          sync.Mutex
	stream      *portaudio.Stream
	initialized bool
	lowLatency  bool
	log         *logrus.Entry
}

// PortAudioOption configures a PortAudioBackend.
type PortAudioOption func(*PortAudioBackend)

// WithHighLatency selects the devices' default high latency instead of the
// low latency.
func WithHighLatency() PortAudioOption {
	return func(p *PortAudioBackend) { p.lowLatency = false }
}

// WithPortAudioLogger sets the backend logger.
func WithPortAudioLogger(l *logrus.Entry) PortAudioOption {
	return func(p *PortAudioBackend) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPortAudioBackend returns an unopened duplex backend.
func NewPortAudioBackend(opts ...PortAudioOption) *PortAudioBackend {
	p := &PortAudioBackend{
		lowLatency: true,
		log:        logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open initializes PortAudio and opens the duplex stream.
func (p *PortAudioBackend) Open(cfg Config, render RenderFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	p.initialized = true

	inDev, err := portaudio.DefaultInputDevice()
	if err != nil {
		p.terminateLocked()
		return fmt.Errorf("default input device: %w", err)
	}
	outDev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		p.terminateLocked()
		return fmt.Errorf("default output device: %w", err)
	}

	inLatency, outLatency := inDev.DefaultHighInputLatency, outDev.DefaultHighOutputLatency
	if p.lowLatency {
		inLatency, outLatency = inDev.DefaultLowInputLatency, outDev.DefaultLowOutputLatency
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: cfg.Channels,
			Device:   inDev,
			Latency:  inLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: cfg.Channels,
			Device:   outDev,
			Latency:  outLatency,
		},
		FramesPerBuffer: cfg.BufferSize,
		SampleRate:      cfg.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, func(in, out []float32) {
		render(in, out)
	})
	if err != nil {
		p.terminateLocked()
		return fmt.Errorf("open portaudio stream: %w", err)
	}
	p.stream = stream

	p.log.WithFields(logrus.Fields{
		"function":       "PortAudioBackend.Open",
		"input_device":   inDev.Name,
		"output_device":  outDev.Name,
		"input_latency":  inLatency.String(),
		"output_latency": outLatency.String(),
	}).Info("PortAudio stream opened")

	return nil
}

// Start starts the stream.
func (p *PortAudioBackend) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("start portaudio stream: %w", err)
	}
	return nil
}

// Stop stops the stream after pending buffers have played.
func (p *PortAudioBackend) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return fmt.Errorf("stop portaudio stream: %w", err)
	}
	return nil
}

// Close closes the stream and terminates PortAudio.
func (p *PortAudioBackend) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.stream != nil {
		if cerr := p.stream.Close(); cerr != nil {
			err = fmt.Errorf("close portaudio stream: %w", cerr)
		}
		p.stream = nil
	}
	if terr := p.terminateLocked(); terr != nil && err == nil {
		err = terr
	}

	p.log.WithFields(logrus.Fields{
		"function": "PortAudioBackend.Close",
	}).Info("PortAudio session terminated")

	return err
}

func (p *PortAudioBackend) terminateLocked() error {
	if !p.initialized {
		return nil
	}
	p.initialized = false
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}
	return nil
}
