package phrase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hpungsan/quip/internal/errors"
)

// DefaultWordChars is the Unicode word-character class used for boundary
// detection when a node does not configure its own.
const DefaultWordChars = `[\p{L}\p{N}_]`

var defaultWordChars = regexp.MustCompile(anchored(DefaultWordChars))

// anchored wraps pattern so it only matches at the start of the input.
func anchored(pattern string) string {
	return `^(?:` + pattern + `)`
}

// Abbreviation holds the abbreviation settings shared by folders and phrases.
// An empty Text means the node has no abbreviation and never triggers by one.
type Abbreviation struct {
	Text          string
	Backspace     bool
	IgnoreCase    bool
	Immediate     bool
	TriggerInside bool

	wordPattern string
	wordChars   *regexp.Regexp
}

// NewAbbreviation returns an abbreviation with the default settings:
// backspace enabled and the default word-character class.
func NewAbbreviation(text string) Abbreviation {
	return Abbreviation{
		Text:      text,
		Backspace: true,
	}
}

// SetWordChars compiles pattern as the word-character class. The pattern is
// compiled here once; an invalid pattern leaves the previous class in place.
func (a *Abbreviation) SetWordChars(pattern string) error {
	if pattern == "" || pattern == DefaultWordChars {
		a.wordPattern = ""
		a.wordChars = nil
		return nil
	}
	re, err := regexp.Compile(anchored(pattern))
	if err != nil {
		return errors.NewInvalidPattern(pattern, err)
	}
	a.wordPattern = pattern
	a.wordChars = re
	return nil
}

// WordChars returns the source of the word-character pattern in use.
func (a *Abbreviation) WordChars() string {
	if a.wordChars == nil {
		return DefaultWordChars
	}
	return a.wordPattern
}

// IsWordChar reports whether r belongs to the word-character class.
func (a *Abbreviation) IsWordChar(r rune) bool {
	re := a.wordChars
	if re == nil {
		re = defaultWordChars
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return re.Match(buf[:n])
}

// Partition splits buffer around the rightmost occurrence of the
// abbreviation. With IgnoreCase the search is done on lower-cased text but
// the returned parts are slices of the original buffer, so typed keeps the
// casing the user actually typed. When the abbreviation does not occur,
// typed is empty and after holds the whole buffer.
func (a *Abbreviation) Partition(buffer string) (before, typed, after string) {
	if a.Text == "" {
		return "", "", buffer
	}
	if !a.IgnoreCase {
		i := strings.LastIndex(buffer, a.Text)
		if i < 0 {
			return "", "", buffer
		}
		end := i + len(a.Text)
		return buffer[:i], buffer[i:end], buffer[end:]
	}

	needle := lowerRunes([]rune(a.Text))
	start, end := -1, -1
	for i := 0; i < len(buffer); {
		if n, ok := foldedPrefix(buffer[i:], needle); ok {
			start, end = i, i+n
		}
		_, size := utf8.DecodeRuneInString(buffer[i:])
		i += size
	}
	if start < 0 {
		return "", "", buffer
	}
	return buffer[:start], buffer[start:end], buffer[end:]
}

// ShouldTrigger reports whether the abbreviation fires for buffer.
func (a *Abbreviation) ShouldTrigger(buffer string) bool {
	_, _, ok := a.match(buffer)
	return ok
}

// match partitions buffer and applies the trigger rules. It returns the
// typed abbreviation and the trailing text when the abbreviation fires.
func (a *Abbreviation) match(buffer string) (typed, after string, ok bool) {
	before, typed, after := a.Partition(buffer)
	if typed == "" {
		return "", "", false
	}

	if a.Immediate {
		if after != "" {
			return "", "", false
		}
	} else {
		// Exactly one non-word trigger character must follow.
		r, size := utf8.DecodeRuneInString(after)
		if size == 0 || size != len(after) {
			return "", "", false
		}
		if a.IsWordChar(r) {
			return "", "", false
		}
	}

	if before != "" && !a.TriggerInside {
		r, _ := utf8.DecodeLastRuneInString(before)
		if a.IsWordChar(r) {
			return "", "", false
		}
	}

	return typed, after, true
}

// eraseCount is the number of characters to delete for a fired abbreviation.
func (a *Abbreviation) eraseCount(after string) int {
	return utf8.RuneCountInString(a.Text) + utf8.RuneCountInString(after)
}

// lowerRunes lower-cases rs in place, one rune for one rune, so offsets in
// the result line up with the input.
func lowerRunes(rs []rune) []rune {
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

// foldedPrefix reports whether s, lower-cased rune by rune, starts with
// needle, and returns the byte length of the matching prefix. Invalid UTF-8
// never matches.
func foldedPrefix(s string, needle []rune) (int, bool) {
	n := 0
	for _, want := range needle {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || (r == utf8.RuneError && size == 1) || unicode.ToLower(r) != want {
			return 0, false
		}
		n += size
	}
	return n, true
}
