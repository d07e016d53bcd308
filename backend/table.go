package backend

// Route maps a path prefix to the back-end server that serves it.
type Route struct {
	Matcher  *Matcher
	Endpoint *Endpoint
}

// Table is an ordered list of routes. The first route whose prefix matches a
// request path wins.
//
// A Table is never modified once built, so it can be shared by any number of
// concurrent requests.
type Table []Route

// Lookup returns the first route whose prefix matches path, or nil if there
// is none.
func (table Table) Lookup(path string) *Route {
	for i := range table {
		if table[i].Matcher.Match(path) {
			return &table[i]
		}
	}

	return nil
}

// With returns a new Table that includes the given mapping after all existing
// routes. It panics if prefix is empty; New reports that as an error instead.
func (table Table) With(prefix string, endpoint *Endpoint) Table {
	matcher, err := NewMatcher(prefix)
	if err != nil {
		panic(err)
	}

	result := make(Table, len(table), len(table)+1)
	copy(result, table)

	return append(result, Route{matcher, endpoint})
}
