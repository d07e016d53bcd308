package backend

// Locator finds the route for an incoming request path.
type Locator interface {
	// Lookup returns the route that requests for path are forwarded along, or
	// nil if path should be served from the document root.
	Lookup(path string) *Route
}
