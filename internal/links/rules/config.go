package rules

import (
	"fmt"
	"regexp"
	"sort"
)

// DomainConfig is one entry of the rules configuration, keyed by a base
// domain (or the literal "default"). The field names mirror the rules file:
//
//	["b23.tv"]
//	redirect = true
//	ban      = ["^share_"]
//
//	["bilibili.com"]
//	sub   = ["www", "m"]
//	ban   = ["^from", "^seid", "spm_id_from"]
//	hooks = ["bv_to_av"]
type DomainConfig struct {
	Subdomains []string `toml:"sub" bson:"sub,omitempty" json:"sub,omitempty"`
	Redirect   bool     `toml:"redirect" bson:"redirect,omitempty" json:"redirect,omitempty"`
	Deny       []string `toml:"ban" bson:"ban,omitempty" json:"ban,omitempty"`
	Hooks      []string `toml:"hooks" bson:"hooks,omitempty" json:"hooks,omitempty"`
}

// Build expands a configuration mapping into the runtime Store.
//
// Each entry compiles its denylist once into a single shared Rule. An entry
// with subdomains materializes one store key per "{sub}.{base}", all pointing
// at that same Rule; an entry without subdomains (including "default") is
// inserted under its own key.
//
// An invalid pattern is a configuration-authoring bug: Build fails and names
// the offending domain and pattern. Nothing is partially constructed.
func Build(cfg map[string]DomainConfig) (*Store, error) {
	table := make(map[string]*Rule, len(cfg))

	// Deterministic iteration so the first reported error is stable.
	bases := make([]string, 0, len(cfg))
	for base := range cfg {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		entry := cfg[base]
		if base == "" {
			return nil, fmt.Errorf("rules config contains an empty domain key")
		}

		deny := make([]*regexp.Regexp, 0, len(entry.Deny))
		for _, pattern := range entry.Deny {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("domain %q: invalid denylist pattern %q: %w", base, pattern, err)
			}
			deny = append(deny, re)
		}

		rule := &Rule{
			Redirect: entry.Redirect,
			Deny:     deny,
			Hooks:    entry.Hooks,
		}

		if len(entry.Subdomains) == 0 {
			table[base] = rule
			continue
		}
		for _, sub := range entry.Subdomains {
			table[sub+"."+base] = rule
		}
	}

	return &Store{rules: table}, nil
}
