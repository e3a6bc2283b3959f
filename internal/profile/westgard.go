package profile

import "github.com/dshills/qcgen/internal/rules"

func westgard() *Profile {
	return &Profile{
		Name:        "westgard",
		Description: "full multirule catalog",
		Rules:       rules.Names(),
	}
}
