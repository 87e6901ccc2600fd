// Package engine runs the real-time effects chain between an audio input and
// an audio output.
//
// An [Engine] owns one instance of each stage and processes every hardware
// buffer through Filter → Modulation → Distortion → Delay in that order.
// Audio is averaged to mono on the way in and copied to every channel on the
// way out. The chain runs inside [Engine.Render], which a [Backend] calls on
// its audio goroutine. Render never allocates, logs or waits on anything but
// the short snapshot copies.
//
// Control goroutines change parameters and enable flags at any time, and
// read the newest input, output, carrier and delay samples through rolling
// [Snapshot] windows:
//
//   - [Engine.GetInputBuffer], [Engine.GetOutputBuffer],
//     [Engine.GetModulationBuffer] and [Engine.GetDelayBuffer] copy snapshots.
//   - [Engine.GetSpectrum] and [Engine.OutputLevels] analyse the output
//     snapshot on the caller's goroutine.
//
// Backends:
//
//   - [ManualBackend] is pumped by the caller and suits tests and offline use.
//   - [PortAudioBackend] opens a full-duplex device stream.
//   - [OtoBackend] plays through the system output with an optional [Source].
//
// Building with the headless tag replaces the device backends with stubs
// that return [ErrNoDevice]. [RenderFile] processes a WAV file offline.
//
// Basic usage:
//
//	eng, _ := engine.New(engine.NewConfig(engine.WithBufferSize(256)),
//		engine.WithBackend(engine.NewPortAudioBackend()))
//	defer eng.Close()
//	eng.SetDelayTime(0, 0.25)
//	_ = eng.Start()
package engine
