package phrase

import (
	"testing"

	"github.com/hpungsan/quip/internal/errors"
)

func TestWindowFilter(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		title   string
		want    bool
	}{
		{"default passes", "", "anything", true},
		{"prefix match", "Mozilla", "Mozilla Firefox", true},
		{"not anchored at end", "Term", "Terminal - bash", true},
		{"anchored at start", "Firefox", "Mozilla Firefox", false},
		{"regex", ".*Firefox", "Mozilla Firefox", true},
		{"alternation stays anchored", "vim|emacs", "xemacs", false},
		{"alternation", "vim|emacs", "emacs@host", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindowFilter(tt.pattern)
			if err != nil {
				t.Fatalf("NewWindowFilter() error = %v", err)
			}
			if got := w.Matches(tt.title); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestWindowFilter_Invalid(t *testing.T) {
	_, err := NewWindowFilter("(unclosed")
	if !errors.Is(err, errors.ErrInvalidPattern) {
		t.Fatalf("NewWindowFilter() error = %v, want INVALID_PATTERN", err)
	}
}

func TestWindowFilter_Accessors(t *testing.T) {
	var zero WindowFilter
	if !zero.IsDefault() || zero.Pattern() != "" {
		t.Error("zero WindowFilter should be the default filter")
	}
	w, _ := NewWindowFilter("Term")
	if w.IsDefault() || w.Pattern() != "Term" {
		t.Errorf("Pattern() = %q, IsDefault() = %v", w.Pattern(), w.IsDefault())
	}
}

func TestHotkey(t *testing.T) {
	h := NewHotkey([]string{"<super>", "<ctrl>", "<ctrl>"}, "p")

	if !h.IsSet() {
		t.Fatal("IsSet() = false")
	}
	if got := h.String(); got != "<ctrl>+<super>+p" {
		t.Errorf("String() = %q", got)
	}

	tests := []struct {
		name string
		mods []string
		key  string
		want bool
	}{
		{"same order", []string{"<super>", "<ctrl>"}, "p", true},
		{"other order", []string{"<ctrl>", "<super>"}, "p", true},
		{"missing modifier", []string{"<ctrl>"}, "p", false},
		{"extra modifier", []string{"<ctrl>", "<super>", "<alt>"}, "p", false},
		{"other key", []string{"<ctrl>", "<super>"}, "q", false},
		{"modifier case ignored", []string{"<CTRL>", " <Super> "}, "p", true},
		{"key case kept", []string{"<ctrl>", "<super>"}, "P", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Matches(tt.mods, tt.key); got != tt.want {
				t.Errorf("Matches(%v, %q) = %v, want %v", tt.mods, tt.key, got, tt.want)
			}
		})
	}
}

func TestHotkey_LowerCasesModifiers(t *testing.T) {
	h := NewHotkey([]string{"CTRL", "ctrl", "Alt"}, "p")

	if got := h.Modifiers(); len(got) != 2 || got[0] != "alt" || got[1] != "ctrl" {
		t.Errorf("Modifiers() = %v, want [alt ctrl]", got)
	}
	if !h.Matches([]string{"ctrl", "alt"}, "p") {
		t.Error("Matches with lower-case modifiers = false")
	}
	if got := h.String(); got != "alt+ctrl+p" {
		t.Errorf("String() = %q", got)
	}
}

func TestHotkey_Unset(t *testing.T) {
	var h Hotkey
	if h.IsSet() || h.Matches(nil, "") {
		t.Error("unset hotkey should never match")
	}
	if NewHotkey([]string{"<ctrl>"}, "").IsSet() {
		t.Error("hotkey without key should be unset")
	}
}

func TestCheckHotkey_WindowGated(t *testing.T) {
	p := mustPhrase(t, "sig", "Regards")
	p.Hotkey = NewHotkey([]string{"<ctrl>"}, "s")
	if err := p.SetWindowFilter("Mail"); err != nil {
		t.Fatal(err)
	}

	if !p.CheckHotkey([]string{"<ctrl>"}, "s", "Mail - Inbox") {
		t.Error("CheckHotkey in matching window = false")
	}
	if p.CheckHotkey([]string{"<ctrl>"}, "s", "Terminal") {
		t.Error("CheckHotkey in other window = true")
	}

	noKey := mustPhrase(t, "plain", "x")
	if noKey.CheckHotkey(nil, "", "Mail") {
		t.Error("CheckHotkey without hotkey = true")
	}
}

func TestModes(t *testing.T) {
	m := NewModes(ModeAbbreviation, ModeNone, ModeHotkey)
	if !m.Has(ModeAbbreviation) || !m.Has(ModeHotkey) || m.Has(ModePredictive) {
		t.Errorf("modes = %v", m.Strings())
	}
	if m.Has(ModeNone) {
		t.Error("Has(ModeNone) = true")
	}
	if got := m.Without(ModeHotkey).Strings(); len(got) != 1 || got[0] != "abbreviation" {
		t.Errorf("Without(hotkey) = %v", got)
	}
	if !NewModes().IsNone() || NewModes().Strings()[0] != "none" {
		t.Error("empty modes should be none")
	}

	parsed, err := ParseMode(" Predictive ")
	if err != nil || parsed != ModePredictive {
		t.Errorf("ParseMode = %v, %v", parsed, err)
	}
	if _, err := ParseMode("telepathy"); err == nil {
		t.Error("ParseMode(telepathy) expected error")
	}
}
