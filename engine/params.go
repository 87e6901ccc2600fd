package engine

import (
	"github.com/cwbudde/soundfx/dsp/effects"
	"github.com/cwbudde/soundfx/dsp/filter/bank"
)

// Parameter setters are safe to call from any goroutine while the engine is
// rendering. Out-of-range values are clamped and out-of-range band or tap
// indices are ignored.

// SetFilterCutoff sets the centre or corner frequency of one filter band.
func (e *Engine) SetFilterCutoff(band int, hz float64) { e.filters.SetCutoff(band, hz) }

// SetFilterQ sets the quality factor of one filter band.
func (e *Engine) SetFilterQ(band int, q float64) { e.filters.SetQ(band, q) }

// SetFilterGain sets the linear gain of one filter band.
func (e *Engine) SetFilterGain(band int, gain float64) { e.filters.SetGain(band, gain) }

// SetFilterBandEnabled switches a single band. A disabled band passes its
// input unchanged.
func (e *Engine) SetFilterBandEnabled(band int, enabled bool) { e.filters.SetEnabled(band, enabled) }

// SetFilterKind changes the response type of one band.
func (e *Engine) SetFilterKind(band int, k bank.Kind) { e.filters.SetKind(band, k) }

// RescaleFilters remaps all band frequencies into [minHz, maxHz].
func (e *Engine) RescaleFilters(minHz, maxHz float64) { e.filters.Rescale(minHz, maxHz) }

// FilterRange returns the range RescaleFilters maps from. It starts at
// [FilterMinHz, FilterMaxHz].
func (e *Engine) FilterRange() (minHz, maxHz float64) { return e.filters.Range() }

// FilterBands returns the number of filter bands.
func (e *Engine) FilterBands() int { return e.filters.Len() }

// FilterBand returns the current parameters of one band.
func (e *Engine) FilterBand(band int) bank.BandParams { return e.filters.Band(band) }

// SetModFrequency sets the ring modulator carrier in Hz.
func (e *Engine) SetModFrequency(hz float64) { e.modulator.SetCarrierHz(hz) }

// ModFrequency returns the carrier frequency in Hz.
func (e *Engine) ModFrequency() float64 { return e.modulator.CarrierHz() }

// SetModMix sets the ring modulator dry/wet balance in [0, 1].
func (e *Engine) SetModMix(mix float64) { e.modulator.SetMix(mix) }

// SetDelayTime sets the offset of one delay tap in seconds.
func (e *Engine) SetDelayTime(tap int, seconds float64) {
	e.delay.SetTapTime(tap, seconds, e.cfg.SampleRate)
}

// DelayTime returns the offset of one delay tap in seconds.
func (e *Engine) DelayTime(tap int) float64 {
	return float64(e.delay.TapDelay(tap)) / e.cfg.SampleRate
}

// SetDelayTapGain sets the gain of one delay tap.
func (e *Engine) SetDelayTapGain(tap int, gain float64) { e.delay.SetTapGain(tap, gain) }

// SetDelayTapEnabled switches one delay tap.
func (e *Engine) SetDelayTapEnabled(tap int, enabled bool) { e.delay.SetTapEnabled(tap, enabled) }

// SetDelayFeedback sets the delay feedback amount.
func (e *Engine) SetDelayFeedback(feedback float64) { e.delay.SetFeedback(feedback) }

// DelayTaps returns the number of delay taps.
func (e *Engine) DelayTaps() int { return e.delay.NumTaps() }

// SetPreGain sets the gain applied before clipping.
func (e *Engine) SetPreGain(gain float64) { e.distortion.SetPreGain(gain) }

// SetPostGain sets the gain applied after clipping.
func (e *Engine) SetPostGain(gain float64) { e.distortion.SetPostGain(gain) }

// SetClippingAmplitude sets the clip threshold.
func (e *Engine) SetClippingAmplitude(level float64) { e.distortion.SetClipLevel(level) }

// SetDistortionMode selects hard or soft clipping.
func (e *Engine) SetDistortionMode(mode effects.DistortionMode) { e.distortion.SetMode(mode) }

// Gains returns the current pre-gain, post-gain and clip level.
func (e *Engine) Gains() (pre, post, clip float64) {
	return e.distortion.PreGain(), e.distortion.PostGain(), e.distortion.ClipLevel()
}
