package profile

import "github.com/dshills/qcgen/internal/rules"

// screening keeps the rules that can be judged from one or two points.
func screening() *Profile {
	return &Profile{
		Name:        "screening",
		Description: "single-run rejection rules",
		Rules:       []rules.Name{rules.Rule13s, rules.Rule22s, rules.RuleR4s},
	}
}
