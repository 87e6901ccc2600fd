package bank

import (
	"fmt"
	"strings"
)

// Kind selects the response of a band.
type Kind int

const (
	Bypass Kind = iota
	Lowpass
	Highpass
	Bandpass
	Peak
)

var kindNames = [...]string{"bypass", "lowpass", "highpass", "bandpass", "peak"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= Bypass && k <= Peak
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return Bypass, fmt.Errorf("bank: unknown filter kind %q", s)
}
