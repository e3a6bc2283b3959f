package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidConfig is returned when a Config does not cover the catalog.
var ErrInvalidConfig = errors.New("invalid rule configuration")

// Config maps every catalog rule to its enabled flag.
type Config map[Name]bool

// DefaultConfig enables every catalog rule.
func DefaultConfig() Config {
	cfg := make(Config, len(catalog))
	for _, r := range catalog {
		cfg[r.Name] = true
	}
	return cfg
}

// ConfigOf enables exactly the named rules and disables the rest.
func ConfigOf(enabled ...Name) Config {
	cfg := make(Config, len(catalog))
	for _, r := range catalog {
		cfg[r.Name] = false
	}
	for _, n := range enabled {
		cfg[n] = true
	}
	return cfg
}

// Validate requires an explicit entry for every catalog rule and no others.
func (c Config) Validate() error {
	var missing []string
	for _, r := range catalog {
		if _, ok := c[r.Name]; !ok {
			missing = append(missing, string(r.Name))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing entries for %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	var unknown []string
	for n := range c {
		if _, ok := Lookup(n); !ok {
			unknown = append(unknown, string(n))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: unknown rules %s", ErrInvalidConfig, strings.Join(unknown, ", "))
	}
	return nil
}

// Enabled returns the enabled rule names in catalog order.
func (c Config) Enabled() []Name {
	var out []Name
	for _, r := range catalog {
		if c[r.Name] {
			out = append(out, r.Name)
		}
	}
	return out
}

// Clone returns an independent copy of c.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
