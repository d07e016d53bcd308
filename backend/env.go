package backend

import (
	"regexp"
	"sort"
)

// FromEnv returns the routes configured by ROUTE_<TAG> environment variables,
// in the form:
//
//	ROUTE_API=/api http://localhost:3000/api [description]
//
// Routes are ordered by tag. The tag is used as the description if none is
// given.
func FromEnv(env []string) ([]Definition, error) {
	type tagged struct {
		tag string
		def Definition
	}

	var routes []tagged

	for _, e := range env {
		groups := routePattern.FindStringSubmatch(e)
		if len(groups) == 0 {
			continue
		}

		def, err := ParseDefinition(groups[valueIndex])
		if err != nil {
			return nil, err
		}

		if def.Description == "" {
			def.Description = groups[tagIndex]
		}

		routes = append(routes, tagged{groups[tagIndex], def})
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].tag < routes[j].tag
	})

	defs := make([]Definition, 0, len(routes))
	for _, r := range routes {
		defs = append(defs, r.def)
	}

	return defs, nil
}

const (
	tagIndex = iota + 1
	valueIndex
)

var routePattern = regexp.MustCompile(`^ROUTE_([^\s=]+)=(.*)$`)
