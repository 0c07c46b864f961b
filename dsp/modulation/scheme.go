package modulation

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-modulation/dsp/core"
)

// Scheme identifies a modulation scheme.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeAM
	SchemeFM
	SchemePM
	SchemeASK
	SchemePSK
	SchemeFSK
)

var schemeNames = map[Scheme]string{
	SchemeAM:  "AM",
	SchemeFM:  "FM",
	SchemePM:  "PM",
	SchemeASK: "ASK",
	SchemePSK: "PSK",
	SchemeFSK: "FSK",
}

// Schemes returns all supported schemes, analog first.
func Schemes() []Scheme {
	return []Scheme{SchemeAM, SchemeFM, SchemePM, SchemeASK, SchemePSK, SchemeFSK}
}

// String returns the conventional abbreviation.
func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Valid reports whether s is one of the supported schemes.
func (s Scheme) Valid() bool {
	_, ok := schemeNames[s]
	return ok
}

// IsDigital reports whether s keys a carrier with a bit stream.
func (s Scheme) IsDigital() bool {
	return s == SchemeASK || s == SchemePSK || s == SchemeFSK
}

// ParseScheme resolves a case-insensitive scheme name.
func ParseScheme(name string) (Scheme, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range schemeNames {
		if n == want {
			return s, nil
		}
	}
	return SchemeUnknown, fmt.Errorf("unknown modulation scheme %q: %w", name, core.ErrInvalidParameter)
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal %v: %w", s, core.ErrInvalidParameter)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
