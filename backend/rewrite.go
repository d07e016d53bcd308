package backend

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidRoute indicates that a route and request path could not be
// combined into a valid back-end URL.
var ErrInvalidRoute = errors.New("invalid route")

// Rewrite produces the back-end URL for a request path that matched route.
//
// The prefix is removed from the front of path and the remainder is appended
// to the endpoint's target as-is; the result is then parsed. An unparseable
// result, a result with no scheme or host, or a scheme other than http, https
// or h2c is reported as ErrInvalidRoute.
func Rewrite(route *Route, path string) (*url.URL, error) {
	suffix, ok := route.Matcher.Suffix(path)
	if !ok {
		return nil, fmt.Errorf(
			"%w: '%s' does not start with '%s'",
			ErrInvalidRoute,
			path,
			route.Matcher.Prefix,
		)
	}

	raw := route.Endpoint.Target + suffix

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "h2c":
	case "":
		return nil, fmt.Errorf("%w: '%s' has no scheme", ErrInvalidRoute, raw)
	default:
		return nil, fmt.Errorf(
			"%w: '%s' has unsupported scheme '%s'",
			ErrInvalidRoute,
			raw,
			u.Scheme,
		)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: '%s' has no host", ErrInvalidRoute, raw)
	}

	return u, nil
}
