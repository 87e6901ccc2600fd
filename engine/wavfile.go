package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/soundfx/dsp/dither"
)

// ErrEngineBusy is returned by RenderFile while the engine is streaming to a
// device.
var ErrEngineBusy = errors.New("engine is running")

// RenderOption configures RenderFile.
type RenderOption func(*renderConfig)

type renderConfig struct {
	dither []dither.Option
}

// WithDither selects the dither applied when converting the output to
// integer PCM. The default is triangular dither of 1 LSB.
func WithDither(dt dither.DitherType) RenderOption {
	return func(c *renderConfig) {
		c.dither = append(c.dither, dither.WithDitherType(dt))
	}
}

// WithDitherSeed makes the output dither reproducible.
func WithDitherSeed(seed uint64) RenderOption {
	return func(c *renderConfig) {
		c.dither = append(c.dither, dither.WithSeed(seed))
	}
}

// RenderFile streams the PCM WAV file at inPath through eng and writes the
// result to outPath with the engine's channel count and the input's bit
// depth. The input sample rate must equal the engine's. Input channels are
// averaged. When the delay stage is enabled the output runs MaxDelaySeconds
// past the end of the input so the echo tail is kept.
//
// ctx is checked between buffers.
func RenderFile(ctx context.Context, eng *Engine, inPath, outPath string, opts ...RenderOption) error {
	if eng.IsRunning() {
		return ErrEngineBusy
	}

	cfg := eng.Config()
	logger := eng.log.WithFields(logrus.Fields{
		"function": "RenderFile",
		"input":    inPath,
		"output":   outPath,
	})

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return fmt.Errorf("%s: not a PCM WAV file: %w", inPath, ErrUnsupportedFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("seek PCM data: %w", err)
	}

	format := dec.Format()
	bitDepth := int(dec.SampleBitDepth())
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%s: bit depth %d: %w", inPath, bitDepth, ErrUnsupportedFormat)
	}
	if float64(format.SampleRate) != cfg.SampleRate {
		return fmt.Errorf("%s: sample rate %d Hz, engine runs at %g Hz: %w",
			inPath, format.SampleRate, cfg.SampleRate, ErrUnsupportedFormat)
	}
	if format.NumChannels < 1 {
		return fmt.Errorf("%s: %d channels: %w", inPath, format.NumChannels, ErrUnsupportedFormat)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, format.SampleRate, bitDepth, cfg.Channels, 1)

	logger.WithFields(logrus.Fields{
		"sample_rate": format.SampleRate,
		"channels":    format.NumChannels,
		"bit_depth":   bitDepth,
	}).Info("Offline render started")
	start := time.Now()

	var rc renderConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&rc)
		}
	}
	quant, err := dither.NewQuantizer(append(rc.dither, dither.WithBitDepth(bitDepth))...)
	if err != nil {
		return fmt.Errorf("output quantizer: %w", err)
	}

	r := newWavRenderer(cfg, format.NumChannels, bitDepth, quant)
	tail := 0
	if eng.StageEnabled(StageDelay) {
		tail = cfg.DelayCapacity()
	}

	frames := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.read(dec)
		if err != nil {
			return fmt.Errorf("decode input: %w", err)
		}
		if n == 0 {
			break
		}
		eng.Render(r.in[:n*cfg.Channels], r.out[:n*cfg.Channels])
		if err := enc.Write(r.encode(n)); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		frames += n
	}

	for tail > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := min(tail, cfg.BufferSize)
		eng.Render(nil, r.out[:n*cfg.Channels])
		if err := enc.Write(r.encode(n)); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		frames += n
		tail -= n
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"frames":  frames,
		"seconds": float64(frames) / cfg.SampleRate,
		"elapsed": time.Since(start).String(),
	}).Info("Offline render finished")

	return nil
}

// wavRenderer converts between integer PCM and the engine's interleaved
// float32 buffers, one BufferSize block at a time.
type wavRenderer struct {
	channels int
	srcChans int
	scale    float64
	quant    *dither.Quantizer
	pcm      *audio.IntBuffer
	enc      *audio.IntBuffer
	in, out  []float32
}

func newWavRenderer(cfg Config, srcChans, bitDepth int, quant *dither.Quantizer) *wavRenderer {
	format := &audio.Format{NumChannels: cfg.Channels, SampleRate: int(cfg.SampleRate)}
	return &wavRenderer{
		channels: cfg.Channels,
		srcChans: srcChans,
		scale:    math.Ldexp(1, bitDepth-1),
		quant:    quant,
		pcm: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: srcChans, SampleRate: int(cfg.SampleRate)},
			Data:           make([]int, cfg.BufferSize*srcChans),
			SourceBitDepth: bitDepth,
		},
		enc: &audio.IntBuffer{
			Format:         format,
			Data:           make([]int, cfg.BufferSize*cfg.Channels),
			SourceBitDepth: bitDepth,
		},
		in:  make([]float32, cfg.BufferSize*cfg.Channels),
		out: make([]float32, cfg.BufferSize*cfg.Channels),
	}
}

// read decodes up to BufferSize frames into r.in and returns the frame count.
func (r *wavRenderer) read(dec *wav.Decoder) (int, error) {
	r.pcm.Data = r.pcm.Data[:cap(r.pcm.Data)]
	n, err := dec.PCMBuffer(r.pcm)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}

	frames := n / r.srcChans
	inv := 1 / (r.scale * float64(r.srcChans))
	for f := range frames {
		sum := 0
		for c := range r.srcChans {
			sum += r.pcm.Data[f*r.srcChans+c]
		}
		v := float32(float64(sum) * inv)
		for c := range r.channels {
			r.in[f*r.channels+c] = v
		}
	}

	return frames, nil
}

// encode converts n rendered frames of r.out to integer PCM.
func (r *wavRenderer) encode(n int) *audio.IntBuffer {
	r.enc.Data = r.enc.Data[:n*r.channels]
	r.quant.QuantizeBlock(r.enc.Data, r.out[:n*r.channels])
	return r.enc
}
