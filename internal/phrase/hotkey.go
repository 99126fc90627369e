package phrase

import (
	"slices"
	"strings"
)

// Hotkey is a modifier set plus one key. Modifiers are lower-cased, sorted
// and de-duplicated so comparisons ignore case and the order they were
// given in. The key is compared as given.
// The zero value is unset and never matches.
type Hotkey struct {
	modifiers []string
	key       string
}

// NewHotkey returns the hotkey for modifiers+key. An empty key yields an
// unset hotkey.
func NewHotkey(modifiers []string, key string) Hotkey {
	if key == "" {
		return Hotkey{}
	}
	return Hotkey{modifiers: canonicalModifiers(modifiers), key: key}
}

func canonicalModifiers(modifiers []string) []string {
	out := make([]string, 0, len(modifiers))
	for _, m := range modifiers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// IsSet reports whether a hotkey is configured.
func (h Hotkey) IsSet() bool {
	return h.key != ""
}

// Modifiers returns a copy of the canonical modifier list.
func (h Hotkey) Modifiers() []string {
	return slices.Clone(h.modifiers)
}

// Key returns the configured key.
func (h Hotkey) Key() string {
	return h.key
}

// Matches reports whether modifiers and key equal the configured hotkey.
func (h Hotkey) Matches(modifiers []string, key string) bool {
	if !h.IsSet() {
		return false
	}
	return key == h.key && slices.Equal(canonicalModifiers(modifiers), h.modifiers)
}

// String renders the hotkey as "mod+mod+key".
func (h Hotkey) String() string {
	if !h.IsSet() {
		return ""
	}
	return strings.Join(append(h.Modifiers(), h.key), "+")
}
