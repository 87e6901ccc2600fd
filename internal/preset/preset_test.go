package preset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/soundfx/dsp/effects"
	"github.com/cwbudde/soundfx/dsp/filter/bank"
	"github.com/cwbudde/soundfx/engine"
)

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newEngine(t *testing.T, opts ...engine.ConfigOption) *engine.Engine {
	t.Helper()

	l := logrus.New()
	l.SetOutput(io.Discard)
	eng, err := engine.New(engine.NewConfig(opts...), engine.WithLogger(logrus.NewEntry(l)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestApplySetsParameters(t *testing.T) {
	eng := newEngine(t, engine.WithFilterbank(4, 100, 8000), engine.WithDelay(1, 2))

	script := `
		for b = 1, bands() do
		  filter_gain(b, 2)
		end
		filter_cutoff(1, 150)
		filter_q(2, 4)
		filter_kind(4, "lowpass")
		filter_enable(3, false)
		mod_freq(30)
		mod_mix(0.25)
		delay_time(2, 0.5)
		delay_gain(2, -0.5)
		delay_enable(2, true)
		delay_feedback(0.4)
		pre_gain(3)
		post_gain(0.5)
		clip(0.8)
		distortion_mode("soft")
		enable("modulation", false)
		enable("output", false)
	`
	require.NoError(t, Apply(context.Background(), eng, script))

	for b := range 4 {
		assert.Equal(t, 2.0, eng.FilterBand(b).Gain, "band %d", b)
	}
	assert.Equal(t, 150.0, eng.FilterBand(0).Frequency)
	assert.Equal(t, 4.0, eng.FilterBand(1).Q)
	assert.False(t, eng.FilterBand(2).Enabled)
	assert.Equal(t, bank.Lowpass, eng.FilterBand(3).Kind)

	assert.Equal(t, 30.0, eng.ModFrequency())
	assert.InDelta(t, 0.5, eng.DelayTime(1), 1e-9)

	pre, post, clip := eng.Gains()
	assert.Equal(t, 3.0, pre)
	assert.Equal(t, 0.5, post)
	assert.Equal(t, 0.8, clip)

	assert.False(t, eng.StageEnabled(engine.StageModulation))
	assert.True(t, eng.StageEnabled(engine.StageFilter))
	assert.False(t, eng.OutputEnabled())
}

func TestApplyClampsLikeTheEngine(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, Apply(context.Background(), eng, `pre_gain(1000) mod_freq(-5)`))

	pre, _, _ := eng.Gains()
	assert.Equal(t, effects.MaxDistortionPreGain, pre)
	assert.Equal(t, 0.0, eng.ModFrequency())
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"syntax", `filter_gain(1, `},
		{"band index", `filter_gain(0, 1)`},
		{"band index high", `filter_gain(3, 1)`},
		{"tap index", `delay_time(9, 0.1)`},
		{"stage", `enable("reverb", true)`},
		{"kind", `filter_kind(1, "comb")`},
		{"mode", `distortion_mode("fuzz")`},
		{"arg type", `mod_freq("fast")`},
		{"runtime", `error("boom")`},
		{"no io", `io.write("x")`},
	}

	eng := newEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Apply(context.Background(), eng, tt.script)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrScript)
		})
	}
}

func TestApplyHonorsContext(t *testing.T) {
	eng := newEngine(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Apply(ctx, eng, `while true do end`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScript)
}

func TestApplyFile(t *testing.T) {
	eng := newEngine(t)
	path := filepath.Join(t.TempDir(), "bright.lua")
	require.NoError(t, os.WriteFile(path, []byte("filter_cutoff(2, 12000)\nenable(\"delay\", false)\n"), 0o600))

	require.NoError(t, ApplyFile(context.Background(), eng, path))
	assert.Equal(t, 12000.0, eng.FilterBand(1).Frequency)
	assert.False(t, eng.StageEnabled(engine.StageDelay))

	err := ApplyFile(context.Background(), eng, filepath.Join(t.TempDir(), "missing.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
