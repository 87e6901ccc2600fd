//go:build !headless

package engine

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

// oto allows one context per process.
var (
	otoMu    sync.Mutex
	otoCtx   *oto.Context
	otoRate  int
	otoChans int
)

func otoContext(sampleRate, channels int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoRate != sampleRate || otoChans != channels {
			return nil, fmt.Errorf("oto context already running at %d Hz/%d ch: %w",
				otoRate, otoChans, ErrUnsupportedFormat)
		}
		return otoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	otoCtx, otoRate, otoChans = ctx, sampleRate, channels
	return ctx, nil
}

// OtoBackend plays the engine output through oto. It has no capture side:
// each pull renders the optional Source as input, or silence.
type OtoBackend struct {
	mu     sync.Mutex
	player *oto.Player
	source Source
	log    *logrus.Entry

	// Owned by the oto reader goroutine.
	render   RenderFunc
	channels int
	in       []float32
	out      []float32
}

// NewOtoBackend returns an unopened backend. src may be nil.
func NewOtoBackend(src Source) *OtoBackend {
	return &OtoBackend{
		source: src,
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
}

// Open creates the oto context and a player pulling from the engine.
func (o *OtoBackend) Open(cfg Config, render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, err := otoContext(int(cfg.SampleRate), cfg.Channels)
	if err != nil {
		return err
	}

	o.render = render
	o.channels = cfg.Channels
	o.in = make([]float32, cfg.BufferSize*cfg.Channels)
	o.out = make([]float32, cfg.BufferSize*cfg.Channels)
	o.player = ctx.NewPlayer(o)

	o.log.WithFields(logrus.Fields{
		"function":    "OtoBackend.Open",
		"sample_rate": cfg.SampleRate,
		"channels":    cfg.Channels,
		"source":      o.source != nil,
	}).Info("Oto player opened")

	return nil
}

// Read implements io.Reader for the oto player.
func (o *OtoBackend) Read(p []byte) (int, error) {
	frameBytes := 4 * o.channels
	frames := len(p) / frameBytes
	chunk := len(o.out) / o.channels

	for done := 0; done < frames; {
		n := min(chunk, frames-done)
		in := o.in[:n*o.channels]
		out := o.out[:n*o.channels]

		if o.source != nil {
			o.source.Fill(in)
		} else {
			clear(in)
		}
		o.render(in, out)

		base := done * frameBytes
		for i, v := range out {
			binary.LittleEndian.PutUint32(p[base+4*i:], math.Float32bits(v))
		}
		done += n
	}
	clear(p[frames*frameBytes:])

	return len(p), nil
}

// Start resumes playback.
func (o *OtoBackend) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotOpen
	}
	o.player.Play()
	return nil
}

// Stop pauses playback.
func (o *OtoBackend) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		o.player.Pause()
	}
	return nil
}

// Close releases the player. The process-wide oto context stays alive.
func (o *OtoBackend) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	if err != nil {
		return fmt.Errorf("close oto player: %w", err)
	}

	o.log.WithFields(logrus.Fields{
		"function": "OtoBackend.Close",
	}).Info("Oto player closed")

	return nil
}
