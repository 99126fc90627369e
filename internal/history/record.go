// Package history defines the expansion records kept in the history store.
package history

import "unicode/utf8"

// TailLength is how many runes of the typed buffer a record keeps.
const TailLength = 32

// Trigger names how an expansion was reached.
type Trigger string

const (
	TriggerInput  Trigger = "input"
	TriggerHotkey Trigger = "hotkey"
	TriggerManual Trigger = "manual"
)

// Record is one expansion or folder menu opened by the engine.
type Record struct {
	// ID is a ULID; it sorts by creation time.
	ID string `json:"id"`

	// NodePath is the slash path of the node from the library root.
	NodePath string `json:"node_path"`
	NodeKind string `json:"node_kind"`

	Trigger Trigger `json:"trigger"`

	// BufferTail is the end of the typed buffer, at most TailLength runes.
	BufferTail  string `json:"buffer_tail,omitempty"`
	WindowTitle string `json:"window_title,omitempty"`

	Backspaces int `json:"backspaces"`
	Lefts      int `json:"lefts"`

	// Chars is the rune count of the inserted text.
	Chars int `json:"chars"`

	// CreatedAt is a Unix timestamp.
	CreatedAt int64 `json:"created_at"`
}

// Tail returns the last n runes of s.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := utf8.RuneCountInString(s)
	if count <= n {
		return s
	}
	for skip := count - n; skip > 0; skip-- {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}
