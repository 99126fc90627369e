package phrase

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// applyCase transforms s to follow the casing of typed: title case, upper
// case or lower case. Mixed casing leaves s unchanged.
func applyCase(typed, s string) string {
	// Casers carry state, so one is built per call.
	switch {
	case isTitleCase(typed):
		return cases.Title(language.Und).String(s)
	case isUpperCase(typed):
		return cases.Upper(language.Und).String(s)
	case isLowerCase(typed):
		return cases.Lower(language.Und).String(s)
	}
	return s
}

// isTitleCase reports whether every run of cased letters in s starts with an
// upper-case letter followed only by lower-case ones, with at least one
// cased letter present.
func isTitleCase(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

func isUpperCase(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func isLowerCase(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}
