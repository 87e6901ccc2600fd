// Package preset applies Lua parameter scripts to a running engine.
//
// A preset is plain Lua with a small set of global functions bound to the
// engine's parameter surface. Band and tap indices are 1-based, as is usual
// in Lua:
//
//	enable("filter", true)
//	for b = 1, bands() do
//	  filter_gain(b, 1.5)
//	end
//	mod_freq(30)
//	delay_time(1, 0.25)
//	delay_feedback(0.4)
//
// Only the base, table, string and math libraries are available.
package preset

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/soundfx/dsp/effects"
	"github.com/cwbudde/soundfx/dsp/filter/bank"
	"github.com/cwbudde/soundfx/engine"
)

// ErrScript wraps every error raised while running a preset.
var ErrScript = errors.New("preset script failed")

// Target is the parameter surface a preset can drive. *engine.Engine
// implements it.
type Target interface {
	FilterBands() int
	DelayTaps() int
	SetFilterCutoff(band int, hz float64)
	SetFilterQ(band int, q float64)
	SetFilterGain(band int, gain float64)
	SetFilterBandEnabled(band int, enabled bool)
	SetFilterKind(band int, k bank.Kind)
	RescaleFilters(minHz, maxHz float64)
	SetModFrequency(hz float64)
	SetModMix(mix float64)
	SetDelayTime(tap int, seconds float64)
	SetDelayTapGain(tap int, gain float64)
	SetDelayTapEnabled(tap int, enabled bool)
	SetDelayFeedback(feedback float64)
	SetPreGain(gain float64)
	SetPostGain(gain float64)
	SetClippingAmplitude(level float64)
	SetDistortionMode(mode effects.DistortionMode)
	SetStageEnabled(s engine.Stage, enabled bool)
	SetInputEnabled(enabled bool)
	SetOutputEnabled(enabled bool)
}

var _ Target = (*engine.Engine)(nil)

// Apply runs script against t. The script is aborted when ctx is done.
func Apply(ctx context.Context, t Target, script string) error {
	return run(ctx, t, "<preset>", func(L *lua.LState) error {
		return L.DoString(script)
	})
}

// ApplyFile runs the Lua file at path against t.
func ApplyFile(ctx context.Context, t Target, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("preset %s: %w", path, err)
	}
	return run(ctx, t, path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func run(ctx context.Context, t Target, name string, exec func(*lua.LState) error) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	if err := openLibs(L); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScript, name, err)
	}
	L.SetContext(ctx)
	register(L, t)

	if err := exec(L); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "preset.Apply",
			"preset":   name,
			"error":    err.Error(),
		}).Warn("Preset failed")
		return fmt.Errorf("%w: %s: %w", ErrScript, name, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "preset.Apply",
		"preset":   name,
	}).Info("Preset applied")

	return nil
}

func openLibs(L *lua.LState) error {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return err
		}
	}
	return nil
}
