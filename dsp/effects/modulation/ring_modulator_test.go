package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/soundfx/internal/testutil"
)

func TestRingModulatorProcessBlockMatchesProcess(t *testing.T) {
	ringMod1, err := NewRingModulator(48000, WithRingModMix(0.7))
	if err != nil {
		t.Fatalf("NewRingModulator() error = %v", err)
	}

	ringMod2, err := NewRingModulator(48000, WithRingModMix(0.7))
	if err != nil {
		t.Fatalf("NewRingModulator() error = %v", err)
	}

	input := make([]float64, 128)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 31)
	}

	want := append([]float64(nil), input...)
	for i := range want {
		want[i] = ringMod1.Process(want[i])
	}

	got := append([]float64(nil), input...)
	carrier := make([]float64, len(got))
	ringMod2.ProcessBlock(got, carrier)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
	testutil.RequireNearlyEqual(t, ringMod2.Phase(), ringMod1.Phase(), 1e-12)

	inc := 2 * math.Pi * 440 / 48000
	for i, c := range carrier {
		testutil.RequireNearlyEqual(t, c, math.Sin(math.Mod(float64(i)*inc, 2*math.Pi)), 1e-9)
	}
}

func TestRingModulatorPureModulation(t *testing.T) {
	rm, err := NewRingModulator(44100, WithRingModCarrierHz(1000))
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.DC(1, 64)
	carrier := make([]float64, len(buf))
	rm.ProcessBlock(buf, carrier)

	// With a DC input and full mix the output is the carrier itself.
	testutil.RequireSliceNearlyEqual(t, buf, carrier, 1e-15)
}

func TestRingModulatorPhaseLongRun(t *testing.T) {
	tests := []struct {
		sampleRate float64
		carrierHz  float64
		samples    int
	}{
		{44100, 440, 44100 * 30},
		{48000, 1234.5, 1 << 20},
		{44100, 22050, 100001},
		{96000, 0.25, 1 << 18},
	}

	for _, tt := range tests {
		rm, err := NewRingModulator(tt.sampleRate, WithRingModCarrierHz(tt.carrierHz))
		if err != nil {
			t.Fatal(err)
		}

		buf := make([]float64, 1024)
		remaining := tt.samples
		for remaining > 0 {
			n := min(remaining, len(buf))
			rm.ProcessBlock(buf[:n], nil)
			remaining -= n
		}

		phase := rm.Phase()
		if phase < 0 || phase >= 2*math.Pi {
			t.Fatalf("phase %v out of [0, 2π)", phase)
		}

		want := math.Mod(2*math.Pi*tt.carrierHz*float64(tt.samples)/tt.sampleRate, 2*math.Pi)
		diff := math.Abs(phase - want)
		diff = math.Min(diff, 2*math.Pi-diff)
		if diff > 1e-6 {
			t.Errorf("fs=%v f=%v N=%d: phase %v, want %v (diff %g)",
				tt.sampleRate, tt.carrierHz, tt.samples, phase, want, diff)
		}
	}
}

func TestRingModulatorClampsParameters(t *testing.T) {
	rm, err := NewRingModulator(48000)
	if err != nil {
		t.Fatal(err)
	}

	rm.SetCarrierHz(1e9)
	if got := rm.CarrierHz(); got != 24000 {
		t.Fatalf("CarrierHz = %v, want 24000", got)
	}
	rm.SetCarrierHz(-5)
	if got := rm.CarrierHz(); got != 0 {
		t.Fatalf("CarrierHz = %v, want 0", got)
	}
	rm.SetCarrierHz(math.NaN())
	if got := rm.CarrierHz(); got != 0 {
		t.Fatalf("NaN should be ignored, got %v", got)
	}

	rm.SetMix(2)
	if rm.Mix() != 1 {
		t.Fatalf("Mix = %v, want 1", rm.Mix())
	}
	rm.SetMix(-1)
	if rm.Mix() != 0 {
		t.Fatalf("Mix = %v, want 0", rm.Mix())
	}
}

func TestRingModulatorOptionsValidate(t *testing.T) {
	if _, err := NewRingModulator(0); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := NewRingModulator(48000, WithRingModCarrierHz(-1)); err == nil {
		t.Error("expected error for negative carrier")
	}
	if _, err := NewRingModulator(48000, WithRingModCarrierHz(30000)); err == nil {
		t.Error("expected error for carrier above Nyquist")
	}
	if _, err := NewRingModulator(48000, WithRingModMix(1.5)); err == nil {
		t.Error("expected error for mix > 1")
	}
}

func TestRingModulatorResetRestoresState(t *testing.T) {
	rm, err := NewRingModulator(48000, WithRingModCarrierHz(300))
	if err != nil {
		t.Fatalf("NewRingModulator() error = %v", err)
	}

	in := testutil.DeterministicSine(50, 48000, 1, 96)

	out1 := append([]float64(nil), in...)
	rm.ProcessBlock(out1, nil)
	if rm.Phase() == 0 {
		t.Fatal("phase should advance")
	}

	rm.Reset()
	if rm.Phase() != 0 {
		t.Fatalf("Phase after Reset = %v", rm.Phase())
	}

	out2 := append([]float64(nil), in...)
	rm.ProcessBlock(out2, nil)
	testutil.RequireSliceNearlyEqual(t, out2, out1, 0)
}
