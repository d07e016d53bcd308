package backend

import (
	"errors"
	"strings"
)

// errEmptyPrefix is returned by NewMatcher when the prefix is empty.
var errEmptyPrefix = errors.New("route prefix must not be empty")

// Matcher matches a literal path prefix against an incoming request path.
//
// There are no wildcards and no normalization: the comparison is byte-wise,
// so "/api" matches "/api", "/api/users" and "/apiary" alike.
type Matcher struct {
	Prefix string
}

// NewMatcher returns a new matcher for the given prefix.
func NewMatcher(prefix string) (*Matcher, error) {
	if prefix == "" {
		return nil, errEmptyPrefix
	}

	return &Matcher{Prefix: prefix}, nil
}

// Match checks if the prefix matches the given path.
func (matcher Matcher) Match(path string) bool {
	return strings.HasPrefix(path, matcher.Prefix)
}

// Suffix returns the portion of path that follows the prefix. ok is false if
// the prefix does not match.
func (matcher Matcher) Suffix(path string) (suffix string, ok bool) {
	if !matcher.Match(path) {
		return "", false
	}

	return path[len(matcher.Prefix):], true
}
