package phrase

import (
	"regexp"

	"github.com/hpungsan/quip/internal/errors"
)

// WindowFilter restricts a node to windows whose title starts with a match
// of a pattern. The zero value has no pattern and passes every title.
type WindowFilter struct {
	pattern string
	re      *regexp.Regexp
}

// NewWindowFilter compiles pattern. An empty pattern yields the default
// filter that passes every title.
func NewWindowFilter(pattern string) (WindowFilter, error) {
	if pattern == "" {
		return WindowFilter{}, nil
	}
	re, err := regexp.Compile(anchored(pattern))
	if err != nil {
		return WindowFilter{}, errors.NewInvalidPattern(pattern, err)
	}
	return WindowFilter{pattern: pattern, re: re}, nil
}

// Pattern returns the source pattern, or "" for the default filter.
func (w WindowFilter) Pattern() string {
	return w.pattern
}

// IsDefault reports whether no pattern is configured.
func (w WindowFilter) IsDefault() bool {
	return w.re == nil
}

// Matches reports whether the pattern matches at the beginning of title.
// The rest of the title is not required to match.
func (w WindowFilter) Matches(title string) bool {
	if w.re == nil {
		return true
	}
	return w.re.MatchString(title)
}
