package phrase

import (
	"fmt"
	"strings"

	"github.com/hpungsan/quip/internal/errors"
)

// Mode is one way a node can be triggered.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeAbbreviation
	ModePredictive
	ModeHotkey
)

var modeNames = map[Mode]string{
	ModeNone:         "none",
	ModeAbbreviation: "abbreviation",
	ModePredictive:   "predictive",
	ModeHotkey:       "hotkey",
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeNone, errors.NewInvalidRequest(fmt.Sprintf("unknown mode %q", s)).WithDetail("mode", s)
}

// Modes is a set of independent trigger modes. The zero value is the
// empty set, which is what ModeNone means.
type Modes uint8

// NewModes returns the set holding ms. ModeNone contributes nothing.
func NewModes(ms ...Mode) Modes {
	var set Modes
	for _, m := range ms {
		set = set.With(m)
	}
	return set
}

func (m Mode) bit() Modes {
	if m == ModeNone {
		return 0
	}
	return 1 << (m - 1)
}

// Has reports whether mode is in the set.
func (s Modes) Has(mode Mode) bool {
	bit := mode.bit()
	return bit != 0 && s&bit != 0
}

// With returns the set with mode added.
func (s Modes) With(mode Mode) Modes {
	return s | mode.bit()
}

// Without returns the set with mode removed.
func (s Modes) Without(mode Mode) Modes {
	return s &^ mode.bit()
}

// IsNone reports whether no trigger mode is active.
func (s Modes) IsNone() bool {
	return s == 0
}

// List returns the active modes in declaration order.
func (s Modes) List() []Mode {
	var out []Mode
	for _, m := range []Mode{ModeAbbreviation, ModePredictive, ModeHotkey} {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Strings returns the active mode names, or ["none"] for the empty set.
func (s Modes) Strings() []string {
	list := s.List()
	if len(list) == 0 {
		return []string{ModeNone.String()}
	}
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.String()
	}
	return names
}
