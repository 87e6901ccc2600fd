package engine

import (
	"github.com/cwbudde/soundfx/dsp/spectrum"
	"github.com/cwbudde/soundfx/stats/level"
)

// GetInputBuffer copies the newest input samples (mono, before processing)
// into dst in chronological order. When dst is longer than the snapshot only
// the snapshot length is copied to the head of dst and the rest is zeroed.
// It returns the number of samples copied.
func (e *Engine) GetInputBuffer(dst []float32) int {
	n, _ := e.inputSnap.Read(dst)
	return n
}

// GetOutputBuffer is GetInputBuffer for the processed signal. The snapshot
// records the chain output even when the hardware output is disabled.
func (e *Engine) GetOutputBuffer(dst []float32) int {
	n, _ := e.outputSnap.Read(dst)
	return n
}

// GetModulationBuffer is GetInputBuffer for the ring modulator carrier. It
// holds zeros while the modulation stage is disabled.
func (e *Engine) GetModulationBuffer(dst []float32) int {
	n, _ := e.modSnap.Read(dst)
	return n
}

// GetDelayBuffer is GetInputBuffer for the delay stage's wet tap mix. It
// holds zeros while the delay stage is disabled.
func (e *Engine) GetDelayBuffer(dst []float32) int {
	n, _ := e.delaySnap.Read(dst)
	return n
}

// SpectrumBins returns the number of values GetSpectrum produces.
func (e *Engine) SpectrumBins() int { return e.analyzer.Bins() }

// SpectrumFrequency returns the centre frequency of spectrum bin k.
func (e *Engine) SpectrumFrequency(k int) float64 {
	return e.analyzer.BinFrequency(k, e.cfg.SampleRate)
}

// GetSpectrum writes the magnitude spectrum of the newest output samples in
// dBFS to dst and returns the number of bins written. It runs on the
// caller's goroutine.
func (e *Engine) GetSpectrum(dst []float64) int {
	e.specMu.Lock()
	defer e.specMu.Unlock()

	n, _ := e.outputSnap.Read(e.specBuf)
	frame := e.specBuf[:n]

	bins, err := e.analyzer.MagnitudeDB(dst, frame)
	if err != nil {
		for i := range dst {
			dst[i] = spectrum.FloorDB
		}
		return 0
	}

	return bins
}

// FilterResponseDB returns the combined magnitude response of the filter
// stage in dB at each frequency. A disabled filter stage is flat.
func (e *Engine) FilterResponseDB(freqs []float64) []float64 {
	if !e.StageEnabled(StageFilter) {
		return make([]float64, len(freqs))
	}
	return e.filters.ResponseDB(freqs)
}

// OutputLevels measures the newest output snapshot.
func (e *Engine) OutputLevels() level.Levels {
	e.levelMu.Lock()
	defer e.levelMu.Unlock()

	n, _ := e.outputSnap.Read(e.levelBuf)
	return level.Measure(e.levelBuf[:n])
}

// InputLevels measures the newest input snapshot.
func (e *Engine) InputLevels() level.Levels {
	e.levelMu.Lock()
	defer e.levelMu.Unlock()

	n, _ := e.inputSnap.Read(e.levelBuf)
	return level.Measure(e.levelBuf[:n])
}
