// Package rules builds and serves the immutable domain→rule table that
// drives URL cleaning. The table is constructed once at startup from a
// structured configuration (TOML file or Mongo collection) and never
// mutated afterwards, so concurrent lookups need no locking.
package rules

import (
	"regexp"
)

// DefaultKey is the reserved configuration key whose rule applies to any
// domain without an explicit entry.
const DefaultKey = "default"

// Rule is the cleaning policy for one domain. Immutable once built; a single
// Rule is shared by pointer across all subdomain fan-out entries.
type Rule struct {
	// Redirect marks short-link domains whose final destination must be
	// resolved over the network before the real rule is chosen.
	Redirect bool

	// Deny holds the compiled denylist, in declaration order. A query key
	// matching any of these patterns (substring, not anchored) is dropped.
	Deny []*regexp.Regexp

	// Hooks names post-processing transformations, applied in order after
	// query filtering.
	Hooks []string
}

// MatchesKey reports whether any denylist pattern matches inside key.
func (r *Rule) MatchesKey(key string) bool {
	for _, re := range r.Deny {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// Store maps a domain to its Rule.
type Store struct {
	rules map[string]*Rule
}

// Get returns the rule registered for exactly this domain.
func (s *Store) Get(domain string) (*Rule, bool) {
	r, ok := s.rules[domain]
	return r, ok
}

// Match returns the rule for domain, falling back to the "default" entry.
// The second return is false only when neither exists.
func (s *Store) Match(domain string) (*Rule, bool) {
	if r, ok := s.rules[domain]; ok {
		return r, true
	}
	r, ok := s.rules[DefaultKey]
	return r, ok
}

// Len returns the number of materialized domain entries.
func (s *Store) Len() int {
	return len(s.rules)
}
