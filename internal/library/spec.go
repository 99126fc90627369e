// Package library loads phrase libraries from disk and builds them into
// phrase trees.
//
// A library file describes the root folder in JSON, TOML or YAML. Every
// format is normalized to JSON, validated against an embedded schema and
// then decoded into the Spec types below.
package library

// AbbreviationSpec describes a node's abbreviation.
type AbbreviationSpec struct {
	Text string `json:"text"`

	// Backspace defaults to true when omitted.
	Backspace     *bool  `json:"backspace,omitempty"`
	IgnoreCase    bool   `json:"ignore_case,omitempty"`
	Immediate     bool   `json:"immediate,omitempty"`
	TriggerInside bool   `json:"trigger_inside,omitempty"`
	WordChars     string `json:"word_chars,omitempty"`
}

// HotkeySpec describes a node's hotkey.
type HotkeySpec struct {
	Modifiers []string `json:"modifiers,omitempty"`
	Key       string   `json:"key"`
}

// PhraseSpec describes one phrase.
type PhraseSpec struct {
	Description    string            `json:"description"`
	Body           string            `json:"body"`
	Modes          []string          `json:"modes,omitempty"`
	Abbreviation   *AbbreviationSpec `json:"abbreviation,omitempty"`
	Hotkey         *HotkeySpec       `json:"hotkey,omitempty"`
	WindowFilter   string            `json:"window_filter,omitempty"`
	ShowInTrayMenu bool              `json:"show_in_tray_menu,omitempty"`
	Prompt         bool              `json:"prompt,omitempty"`
	OmitTrigger    bool              `json:"omit_trigger,omitempty"`
	MatchCase      bool              `json:"match_case,omitempty"`
}

// FolderSpec describes a folder and everything below it. A library file
// holds exactly one FolderSpec: the root.
type FolderSpec struct {
	Title          string            `json:"title"`
	Modes          []string          `json:"modes,omitempty"`
	Abbreviation   *AbbreviationSpec `json:"abbreviation,omitempty"`
	Hotkey         *HotkeySpec       `json:"hotkey,omitempty"`
	WindowFilter   string            `json:"window_filter,omitempty"`
	ShowInTrayMenu bool              `json:"show_in_tray_menu,omitempty"`
	Folders        []FolderSpec      `json:"folders,omitempty"`
	Phrases        []PhraseSpec      `json:"phrases,omitempty"`
}
