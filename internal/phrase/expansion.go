package phrase

import (
	"strings"
	"unicode/utf8"
)

// CursorMarker marks where the cursor should land after an expansion.
const CursorMarker = "%%"

// Expansion is what the caller applies to the target application: erase
// Backspaces characters, type String, then move the cursor Lefts
// characters to the left.
type Expansion struct {
	String     string `json:"string"`
	Backspaces int    `json:"backspaces"`
	Lefts      int    `json:"lefts"`
}

// BuildExpansion records a use of p and computes its expansion for buffer.
//
// When the abbreviation fires, the typed abbreviation (and trigger text) is
// erased if Backspace is set, the trigger text is re-typed unless
// OmitTrigger is set, and MatchCase applies the typed casing. Otherwise, when
// the predictive pattern fires, the already-typed prefix is dropped from the
// output. When neither fires the phrase was picked by hand, so the
// backspace count comes from the enclosing folders.
func (p *Phrase) BuildExpansion(buffer string, predictiveLength int) Expansion {
	p.IncrementUsage()

	exp := Expansion{String: p.body}

	var typed, after string
	abbrFired := false
	if p.Modes.Has(ModeAbbreviation) {
		typed, after, abbrFired = p.Abbreviation.match(buffer)
	}

	switch {
	case abbrFired:
		if p.Abbreviation.Backspace {
			exp.Backspaces = p.Abbreviation.eraseCount(after)
		}
		if !p.OmitTrigger {
			exp.String += after
		}
		if p.MatchCase {
			exp.String = applyCase(typed, exp.String)
		}
	case p.predictiveFires(buffer, predictiveLength):
		exp.String = trimRunes(exp.String, predictiveLength)
	default:
		if p.parent != nil {
			exp.Backspaces = p.parent.BackspaceCount(buffer)
		}
	}

	placeCursor(&exp)
	return exp
}

// placeCursor removes the cursor marker and sets Lefts to the number of
// characters after it. Only the first marker is honored.
func placeCursor(exp *Expansion) {
	first, second, found := strings.Cut(exp.String, CursorMarker)
	if !found {
		return
	}
	exp.String = first + second
	exp.Lefts = utf8.RuneCountInString(second)
}
