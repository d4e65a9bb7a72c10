// Package cleaner implements the clean pipeline: parse, rule lookup,
// optional redirect resolution, query filtering, hook chain. Every call is
// independent and works on stack-local state; the rule store and hook
// registry are shared read-only, so any number of Clear calls may run
// concurrently.
package cleaner

import (
	"context"
	"errors"
	"net/url"
	"strings"

	linkerrors "clearlink/internal/links/errors"
	"clearlink/internal/links/hooks"
	"clearlink/internal/links/rules"
	"clearlink/pkg/logger"
)

// ErrNoResolver is wrapped into a RedirectFail when a redirect rule fires
// but the cleaner was built without a resolver.
var ErrNoResolver = errors.New("no redirect resolver configured")

type Cleaner struct {
	store    *rules.Store
	registry *hooks.Registry
	resolver Resolver
	log      *logger.Logger
}

func New(store *rules.Store, registry *hooks.Registry, resolver Resolver, log *logger.Logger) *Cleaner {
	return &Cleaner{
		store:    store,
		registry: registry,
		resolver: resolver,
		log:      log,
	}
}

// Clear cleans rawURL according to the rule of its domain.
//
// The steps run in order and the first failure wins. Three failure codes are
// benign no-ops rather than incidents: NO_QUERY, NO_MATCH_RULE and
// NOTHING_TO_CLEAN all mean "keep the original URL".
func (c *Cleaner) Clear(ctx context.Context, rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, linkerrors.URLParse(rawURL, err)
	}

	domain := u.Hostname()
	if domain == "" {
		return nil, linkerrors.NoDomain(rawURL)
	}

	rule, ok := c.store.Match(domain)
	if !ok {
		return nil, linkerrors.NoMatchRule(domain)
	}

	// A redirect rule marks a short-link domain: resolve the destination,
	// then pick the rule again for the domain we actually landed on. The
	// transport already exhausted its own redirect chain, so this re-lookup
	// happens exactly once even if the destination rule is itself marked
	// redirect.
	if rule.Redirect {
		if c.resolver == nil {
			return nil, linkerrors.RedirectFail(rawURL, ErrNoResolver)
		}
		resolved, err := c.resolver.Resolve(ctx, u.String())
		if err != nil {
			return nil, linkerrors.RedirectFail(rawURL, err)
		}
		c.log.Debug("redirect resolved", "from", rawURL, "to", resolved.String())

		u = resolved
		domain = u.Hostname()
		if domain == "" {
			return nil, linkerrors.NoDomain(resolved.String())
		}
		rule, ok = c.store.Match(domain)
		if !ok {
			return nil, linkerrors.NoMatchRule(domain)
		}
	}

	// Query filtering. When the rule carries hooks, the strict gates soften:
	// an absent or already-clean query falls through so the hooks still run.
	hasHooks := len(rule.Hooks) > 0
	switch {
	case u.RawQuery == "":
		if !hasHooks {
			return nil, linkerrors.NoQuery(domain)
		}
	case len(rule.Deny) == 0:
		if !hasHooks {
			return nil, linkerrors.NoMatchRule(domain)
		}
	default:
		rebuilt := filterQuery(u.RawQuery, rule)
		if rebuilt == u.RawQuery {
			if !hasHooks {
				return nil, linkerrors.NothingToClean(domain)
			}
		} else {
			u.RawQuery = rebuilt
		}
	}

	for _, name := range rule.Hooks {
		fn, ok := c.registry.Get(name)
		if !ok {
			return nil, linkerrors.HookFailed(name, "not found")
		}
		next, err := fn(u)
		if err != nil {
			return nil, linkerrors.HookFailedErr(name, err)
		}
		u = next
	}

	return u, nil
}

// filterQuery drops every pair whose key matches the rule's denylist and
// rebuilds the query from the surviving raw pair text, so ordering, escaping
// and the key-only/empty-value distinction all survive byte-for-byte.
func filterQuery(rawQuery string, rule *rules.Rule) string {
	pairs := strings.Split(rawQuery, "&")
	kept := pairs[:0]

	for _, pair := range pairs {
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if !rule.MatchesKey(key) {
			kept = append(kept, pair)
		}
	}

	return strings.Join(kept, "&")
}
