package backend

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Definition is the configured form of a route, as read from a config file,
// the environment or Redis.
type Definition struct {
	Prefix      string `yaml:"prefix" toml:"prefix"`
	Target      string `yaml:"target" toml:"target"`
	Description string `yaml:"description" toml:"description"`
}

// DefaultDefinition is the route used when no route is configured at all.
var DefaultDefinition = Definition{
	Prefix:      "/api",
	Target:      "http://localhost:3000/api",
	Description: "default",
}

// New builds a Table from definitions, preserving their order.
//
// Every invalid definition is reported, not just the first. The target is not
// validated here; a malformed target only fails the requests routed to it.
func New(defs ...Definition) (Table, error) {
	var (
		table Table
		err   error
	)

	for i, def := range defs {
		if _, e := NewMatcher(def.Prefix); e != nil {
			err = multierr.Append(err, fmt.Errorf("route #%d (%s): %w", i+1, def.Description, e))
			continue
		}

		if def.Target == "" {
			err = multierr.Append(err, fmt.Errorf("route #%d (%s): target must not be empty", i+1, def.Description))
			continue
		}

		table = table.With(def.Prefix, &Endpoint{
			Description: def.Description,
			Target:      def.Target,
		})
	}

	if err != nil {
		return nil, err
	}

	return table, nil
}

// ParseDefinition parses a route in the "<prefix> <target> [description]"
// form used by environment variables and Redis entries.
func ParseDefinition(s string) (Definition, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Definition{}, fmt.Errorf(
			"'%s' is not a valid route, expected '<prefix> <target> [description]'",
			s,
		)
	}

	return Definition{
		Prefix:      fields[0],
		Target:      fields[1],
		Description: strings.Join(fields[2:], " "),
	}, nil
}
