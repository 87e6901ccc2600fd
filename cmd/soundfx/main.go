// Command soundfx runs the effects engine on an audio device or a WAV file.
//
// Usage:
//
//	soundfx [flags]
//
// Modes:
//
//	live    full-duplex processing of the default input and output devices
//	tone    a test tone through the chain to the default output device
//	render  offline processing of -in into -out (PCM WAV)
//
// In live and tone mode, when stdin is a terminal, single keys toggle the
// chain: f filter, m modulation, d distortion, e delay, i input, o output,
// s stats, q quit.
//
// Examples:
//
//	soundfx -mode live -preset presets/robot.lua
//	soundfx -mode tone -tone-hz 220 -bands 12
//	soundfx -mode render -in dry.wav -out wet.wav -rate 48000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	dspsignal "github.com/cwbudde/soundfx/dsp/signal"
	"github.com/cwbudde/soundfx/engine"
	"github.com/cwbudde/soundfx/internal/preset"
)

type options struct {
	mode     string
	in       string
	out      string
	preset   string
	rate     float64
	buffer   int
	channels int
	bands    int
	toneHz   float64
	verbose  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", "live", "live, tone or render")
	flag.StringVar(&opts.in, "in", "", "input WAV file (render mode)")
	flag.StringVar(&opts.out, "out", "", "output WAV file (render mode)")
	flag.StringVar(&opts.preset, "preset", "", "Lua preset applied before starting")
	flag.Float64Var(&opts.rate, "rate", 44100, "sample rate in Hz")
	flag.IntVar(&opts.buffer, "buffer", 1024, "frames per buffer (power of two)")
	flag.IntVar(&opts.channels, "channels", 2, "channel count (1 or 2)")
	flag.IntVar(&opts.bands, "bands", 0, "filterbank bands; 0 selects the highpass/lowpass tone layout")
	flag.Float64Var(&opts.toneHz, "tone-hz", 440, "test tone frequency (tone mode)")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: soundfx [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the filter, ring modulation, distortion and delay chain.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logrus.SetLevel(logrus.InfoLevel)
	if opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(opts); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"mode":     opts.mode,
			"error":    err.Error(),
		}).Error("soundfx failed")
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgOpts := []engine.ConfigOption{
		engine.WithSampleRate(opts.rate),
		engine.WithBufferSize(opts.buffer),
		engine.WithChannels(opts.channels),
	}
	if opts.bands > 0 {
		cfgOpts = append(cfgOpts, engine.WithFilterbank(opts.bands, 40, 16000))
	}
	cfg := engine.NewConfig(cfgOpts...)

	var backend engine.Backend
	switch opts.mode {
	case "live":
		backend = engine.NewPortAudioBackend()
	case "tone":
		tone := dspsignal.NewTone(opts.toneHz, 0.5, cfg.SampleRate, cfg.Channels)
		backend = engine.NewOtoBackend(tone)
	case "render":
		if opts.in == "" || opts.out == "" {
			return errors.New("render mode needs -in and -out")
		}
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}

	engOpts := []engine.Option{}
	if backend != nil {
		engOpts = append(engOpts, engine.WithBackend(backend))
	}
	eng, err := engine.New(cfg, engOpts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	if opts.preset != "" {
		if err := preset.ApplyFile(ctx, eng, opts.preset); err != nil {
			return err
		}
	}

	if opts.mode == "render" {
		return engine.RenderFile(ctx, eng, opts.in, opts.out)
	}

	if err := eng.Start(); err != nil {
		return err
	}

	return interact(ctx, eng)
}
