package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/cwbudde/soundfx/engine"
)

// interact blocks until ctx is done or q is pressed. With a terminal on
// stdin it switches to raw mode and maps single keys to engine toggles.
func interact(ctx context.Context, eng *engine.Engine) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		<-ctx.Done()
		return nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "interact",
			"error":    err.Error(),
		}).Warn("Raw terminal unavailable, key controls disabled")
		<-ctx.Done()
		return nil
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	// Raw mode turns \n into a bare line feed.
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetOutput(crlfWriter{os.Stderr})
	defer logrus.SetOutput(os.Stderr)

	fmt.Fprint(os.Stderr, "keys: f filter, m modulation, d distortion, e delay, i input, o output, s stats, q quit\r\n")

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if !handleKey(eng, k) {
				return nil
			}
		}
	}
}

var stageKeys = map[byte]engine.Stage{
	'f': engine.StageFilter,
	'm': engine.StageModulation,
	'd': engine.StageDistortion,
	'e': engine.StageDelay,
}

// handleKey applies k and reports whether to keep running.
func handleKey(eng *engine.Engine, k byte) bool {
	if s, ok := stageKeys[k]; ok {
		eng.SetStageEnabled(s, !eng.StageEnabled(s))
		fmt.Fprintf(os.Stderr, "%s: %s\r\n", s, onOff(eng.StageEnabled(s)))
		return true
	}

	switch k {
	case 'i':
		eng.SetInputEnabled(!eng.InputEnabled())
		fmt.Fprintf(os.Stderr, "input: %s\r\n", onOff(eng.InputEnabled()))
	case 'o':
		eng.SetOutputEnabled(!eng.OutputEnabled())
		fmt.Fprintf(os.Stderr, "output: %s\r\n", onOff(eng.OutputEnabled()))
	case 's':
		st := eng.Stats()
		in, out := eng.InputLevels(), eng.OutputLevels()
		fmt.Fprintf(os.Stderr, "callbacks %d, frames %d, sanitized %d\r\n",
			st.Callbacks, st.Frames, st.SanitizedSamples)
		fmt.Fprintf(os.Stderr, "in  peak %6.1f dBFS rms %6.1f dBFS\r\n", in.Peak_dB, in.RMS_dB)
		fmt.Fprintf(os.Stderr, "out peak %6.1f dBFS rms %6.1f dBFS clipped %d\r\n", out.Peak_dB, out.RMS_dB, out.Clipped)
	case 'q', 0x03, 0x04: // q, Ctrl-C, Ctrl-D
		return false
	}
	return true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == '\n' {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
