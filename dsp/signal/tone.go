package signal

import (
	"math"

	"github.com/cwbudde/soundfx/dsp/core"
)

// Tone is a continuous sine source that fills interleaved float32 buffers
// block after block without phase discontinuities. It is used as a stand-in
// input when no capture device is available.
//
// A Tone is not safe for concurrent use.
type Tone struct {
	amplitude float64
	channels  int
	phase     float64
	inc       float64
}

// NewTone returns a tone at freqHz. Frequency is clamped to [0, fs/2] and
// channels to at least 1.
func NewTone(freqHz, amplitude, sampleRate float64, channels int) *Tone {
	if channels < 1 {
		channels = 1
	}
	freqHz = core.ClampFinite(freqHz, 0, sampleRate/2, 0)
	return &Tone{
		amplitude: amplitude,
		channels:  channels,
		inc:       2 * math.Pi * freqHz / sampleRate,
	}
}

// Fill writes len(dst)/channels frames into dst.
func (t *Tone) Fill(dst []float32) {
	frames := len(dst) / t.channels
	for f := range frames {
		v := float32(t.amplitude * math.Sin(t.phase))
		base := f * t.channels
		for c := range t.channels {
			dst[base+c] = v
		}
		t.phase = math.Mod(t.phase+t.inc, 2*math.Pi)
	}
}
