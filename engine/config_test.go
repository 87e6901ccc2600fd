package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 44100.0, cfg.SampleRate)
	assert.Equal(t, 1024, cfg.BufferSize)
	assert.Zero(t, cfg.SnapshotLength)
	assert.Equal(t, cfg.BufferSize, NewConfig().SnapshotLength)
}

func TestNewConfigSnapshotFollowsBufferSize(t *testing.T) {
	cfg := NewConfig(WithBufferSize(256))
	assert.Equal(t, 256, cfg.SnapshotLength)

	cfg = NewConfig(WithBufferSize(256), WithSnapshotLength(4096))
	assert.Equal(t, 4096, cfg.SnapshotLength)

	cfg = NewConfig(WithSnapshotLength(1024), WithBufferSize(256))
	assert.Equal(t, 1024, cfg.SnapshotLength)

	cfg = NewConfig(WithBufferSize(256), WithSnapshotLength(0))
	assert.Equal(t, 256, cfg.SnapshotLength)
}

func TestNewResolvesSnapshotLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferSize = 512

	eng, err := New(cfg, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	assert.Equal(t, 512, eng.Config().SnapshotLength)

	dst := make([]float32, 1024)
	assert.Equal(t, 512, eng.GetOutputBuffer(dst))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		opt  ConfigOption
		want error
	}{
		{"rate", WithSampleRate(12345), ErrUnsupportedFormat},
		{"zero rate", WithSampleRate(0), ErrUnsupportedFormat},
		{"buffer not pow2", WithBufferSize(1000), ErrUnsupportedFormat},
		{"buffer too small", WithBufferSize(32), ErrUnsupportedFormat},
		{"buffer too large", WithBufferSize(16384), ErrUnsupportedFormat},
		{"channels", WithChannels(3), ErrUnsupportedFormat},
		{"no channels", WithChannels(0), ErrUnsupportedFormat},
		{"snapshot", WithSnapshotLength(-1), ErrInvalidConfig},
		{"nan gain", WithGains(math.NaN(), 1, 1), ErrInvalidConfig},
		{"negative clip", WithGains(1, 1, -1), ErrInvalidConfig},
		{"delay taps", WithDelay(1, 17), ErrInvalidConfig},
		{"delay time", WithDelay(0, 4), ErrInvalidConfig},
		{"bands", WithFilterbank(25, 20, 20000), ErrInvalidConfig},
		{"inverted range", WithToneFilter(1000, 100), ErrInvalidConfig},
		{"inf range", WithToneFilter(20, math.Inf(1)), ErrInvalidConfig},
		{"layout", func(c *Config) { c.FilterLayout = FilterLayout(9) }, ErrInvalidConfig},
		{"spectrum", WithSpectrumSize(1000), ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(tt.opt)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestConfigAcceptsSupportedFormats(t *testing.T) {
	for _, sr := range supportedSampleRates {
		for _, ch := range []int{1, 2} {
			cfg := NewConfig(WithSampleRate(sr), WithChannels(ch), WithBufferSize(64))
			assert.NoError(t, cfg.Validate(), "sr=%v ch=%d", sr, ch)
		}
	}
}

func TestDelayCapacity(t *testing.T) {
	cfg := NewConfig(WithSampleRate(48000), WithDelay(0.5, 2))
	assert.Equal(t, 24000, cfg.DelayCapacity())

	cfg = NewConfig(WithSampleRate(44100), WithDelay(0.00001, 1))
	assert.Equal(t, 1, cfg.DelayCapacity())
}

func TestFilterLayoutString(t *testing.T) {
	assert.Equal(t, "tone", ToneLayout.String())
	assert.Equal(t, "filterbank", FilterbankLayout.String())
	assert.Equal(t, "FilterLayout(7)", FilterLayout(7).String())
}
