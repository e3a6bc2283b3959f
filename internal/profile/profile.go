package profile

import (
	"fmt"
	"strings"

	"github.com/dshills/qcgen/internal/rules"
)

// Profile is a named preset of enabled audit rules.
type Profile struct {
	Name        string
	Description string
	Rules       []rules.Name
}

// Get returns the built-in profile for the given name.
func Get(name string) (*Profile, error) {
	switch name {
	case "westgard", "":
		return westgard(), nil
	case "screening":
		return screening(), nil
	case "systematic":
		return systematic(), nil
	case "random":
		return random(), nil
	default:
		return nil, fmt.Errorf("unknown profile %q: valid profiles are %s", name, strings.Join(Names(), ", "))
	}
}

// Names lists the built-in profile names.
func Names() []string {
	return []string{"westgard", "screening", "systematic", "random"}
}

// Config returns a rule configuration enabling exactly the profile's rules.
func (p *Profile) Config() rules.Config {
	return rules.ConfigOf(p.Rules...)
}

// Describe returns a short human-readable listing of the profile.
func (p *Profile) Describe() string {
	names := make([]string, len(p.Rules))
	for i, r := range p.Rules {
		names[i] = string(r)
	}
	return fmt.Sprintf("%s: %s (%s)", p.Name, p.Description, strings.Join(names, ", "))
}
