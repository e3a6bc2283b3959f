package profile

import "github.com/dshills/qcgen/internal/rules"

func systematic() *Profile {
	return &Profile{
		Name:        "systematic",
		Description: "rules sensitive to bias and drift",
		Rules:       []rules.Name{rules.Rule22s, rules.Rule41s, rules.Rule7T, rules.Rule10x},
	}
}

func random() *Profile {
	return &Profile{
		Name:        "random",
		Description: "rules sensitive to imprecision",
		Rules:       []rules.Name{rules.Rule13s, rules.RuleR4s},
	}
}
