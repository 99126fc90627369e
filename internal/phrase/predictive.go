package phrase

import "unicode/utf8"

// ShouldTriggerPredictive reports whether the last predictiveLength
// characters of buffer equal the first predictiveLength characters of body.
// A length of zero or less disables predictive triggering.
func ShouldTriggerPredictive(buffer, body string, predictiveLength int) bool {
	if predictiveLength <= 0 {
		return false
	}
	if utf8.RuneCountInString(buffer) < predictiveLength {
		return false
	}
	head, ok := prefixRunes(body, predictiveLength)
	if !ok {
		return false
	}
	return suffixRunes(buffer, predictiveLength) == head
}

// prefixRunes returns the first n characters of s, or false if s is shorter.
func prefixRunes(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	if count == n {
		return s, true
	}
	return "", false
}

// suffixRunes returns the last n characters of s (all of s if shorter).
func suffixRunes(s string, n int) string {
	end := len(s)
	for n > 0 && end > 0 {
		_, size := utf8.DecodeLastRuneInString(s[:end])
		end -= size
		n--
	}
	return s[end:]
}

// trimRunes drops the first n characters of s.
func trimRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}
