//go:build headless

package engine

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrNoDevice is returned by device backends in headless builds.
var ErrNoDevice = errors.New("audio devices not available in headless build")

// PortAudioBackend is a stub in headless builds.
type PortAudioBackend struct{}

// PortAudioOption configures a PortAudioBackend.
type PortAudioOption func(*PortAudioBackend)

// WithHighLatency is a no-op in headless builds.
func WithHighLatency() PortAudioOption { return func(*PortAudioBackend) {} }

// WithPortAudioLogger is a no-op in headless builds.
func WithPortAudioLogger(*logrus.Entry) PortAudioOption { return func(*PortAudioBackend) {} }

// NewPortAudioBackend returns a backend whose Open always fails.
func NewPortAudioBackend(...PortAudioOption) *PortAudioBackend { return &PortAudioBackend{} }

func (*PortAudioBackend) Open(Config, RenderFunc) error { return ErrNoDevice }
func (*PortAudioBackend) Start() error                  { return ErrNotOpen }
func (*PortAudioBackend) Stop() error                   { return nil }
func (*PortAudioBackend) Close() error                  { return nil }

// OtoBackend is a stub in headless builds.
type OtoBackend struct{}

// NewOtoBackend returns a backend whose Open always fails.
func NewOtoBackend(Source) *OtoBackend { return &OtoBackend{} }

func (*OtoBackend) Open(Config, RenderFunc) error { return ErrNoDevice }
func (*OtoBackend) Start() error                  { return ErrNotOpen }
func (*OtoBackend) Stop() error                   { return nil }
func (*OtoBackend) Close() error                  { return nil }
