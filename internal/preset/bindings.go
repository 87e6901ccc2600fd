package preset

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/soundfx/dsp/effects"
	"github.com/cwbudde/soundfx/dsp/filter/bank"
	"github.com/cwbudde/soundfx/engine"
)

func register(L *lua.LState, t Target) {
	funcs := map[string]lua.LGFunction{
		"bands": func(L *lua.LState) int {
			L.Push(lua.LNumber(t.FilterBands()))
			return 1
		},
		"taps": func(L *lua.LState) int {
			L.Push(lua.LNumber(t.DelayTaps()))
			return 1
		},

		"filter_cutoff": indexed(t.FilterBands, t.SetFilterCutoff),
		"filter_q":      indexed(t.FilterBands, t.SetFilterQ),
		"filter_gain":   indexed(t.FilterBands, t.SetFilterGain),
		"filter_enable": func(L *lua.LState) int {
			i := checkIndex(L, 1, t.FilterBands())
			t.SetFilterBandEnabled(i, L.CheckBool(2))
			return 0
		},
		"filter_kind": func(L *lua.LState) int {
			i := checkIndex(L, 1, t.FilterBands())
			k, err := bank.ParseKind(L.CheckString(2))
			if err != nil {
				L.ArgError(2, err.Error())
			}
			t.SetFilterKind(i, k)
			return 0
		},
		"rescale": func(L *lua.LState) int {
			t.RescaleFilters(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
			return 0
		},

		"mod_freq": scalar(t.SetModFrequency),
		"mod_mix":  scalar(t.SetModMix),

		"delay_time":     indexed(t.DelayTaps, t.SetDelayTime),
		"delay_gain":     indexed(t.DelayTaps, t.SetDelayTapGain),
		"delay_feedback": scalar(t.SetDelayFeedback),
		"delay_enable": func(L *lua.LState) int {
			i := checkIndex(L, 1, t.DelayTaps())
			t.SetDelayTapEnabled(i, L.CheckBool(2))
			return 0
		},

		"pre_gain":  scalar(t.SetPreGain),
		"post_gain": scalar(t.SetPostGain),
		"clip":      scalar(t.SetClippingAmplitude),
		"distortion_mode": func(L *lua.LState) int {
			switch mode := L.CheckString(1); mode {
			case "hard":
				t.SetDistortionMode(effects.DistortionModeHardClip)
			case "soft":
				t.SetDistortionMode(effects.DistortionModeSoftClip)
			default:
				L.ArgError(1, "mode must be \"hard\" or \"soft\", got "+mode)
			}
			return 0
		},

		"enable": func(L *lua.LState) int {
			name := L.CheckString(1)
			on := L.CheckBool(2)
			switch name {
			case "input":
				t.SetInputEnabled(on)
			case "output":
				t.SetOutputEnabled(on)
			default:
				s, err := engine.ParseStage(name)
				if err != nil {
					L.ArgError(1, err.Error())
				}
				t.SetStageEnabled(s, on)
			}
			return 0
		},
	}

	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// checkIndex converts the 1-based Lua index at argument n into a 0-based
// index below count.
func checkIndex(L *lua.LState, n, count int) int {
	i := L.CheckInt(n)
	if i < 1 || i > count {
		L.ArgError(n, "index out of range")
	}
	return i - 1
}

func indexed(count func() int, set func(int, float64)) lua.LGFunction {
	return func(L *lua.LState) int {
		i := checkIndex(L, 1, count())
		set(i, float64(L.CheckNumber(2)))
		return 0
	}
}

func scalar(set func(float64)) lua.LGFunction {
	return func(L *lua.LState) int {
		set(float64(L.CheckNumber(1)))
		return 0
	}
}
