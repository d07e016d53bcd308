package backend

import "strings"

// Endpoint holds information about a back-end HTTP server.
type Endpoint struct {
	// A human readable description of what the end-point is, not necessarily
	// unique to this endpoint.
	Description string

	// Target is the base URI that requests are forwarded to. The portion of
	// the request path that follows the matched prefix is appended to it
	// verbatim.
	//
	// It is kept exactly as configured. It is only parsed, per request, by
	// Rewrite.
	Target string
}

// IsH2C returns true if the back-end server is expecting cleartext HTTP/2
// connections, as indicated by the "h2c://" scheme.
func (ep *Endpoint) IsH2C() bool {
	return strings.HasPrefix(strings.ToLower(ep.Target), "h2c://")
}
