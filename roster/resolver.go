// Package roster resolves free-form driver and constructor names to the
// canonical slugs used across submissions, results, and the ledger.
package roster

import (
	"regexp"
	"strings"
)

// Lookup finds the canonical slug for a name in the seeded roster.
// database.Store satisfies it.
type Lookup interface {
	FindDriverSlug(name string) (string, bool)
}

// Resolver maps names from the feed or an import file to canonical
// slugs. Resolution cascades: configured aliases first, then the roster
// lookup, then a slugified fallback so unknown names stay comparable.
type Resolver struct {
	aliases map[string]string
	lookup  Lookup
}

// NewResolver builds a Resolver over the given alias table and roster
// lookup. Alias keys are matched case-insensitively.
func NewResolver(aliases map[string]string, lookup Lookup) *Resolver {
	normalized := make(map[string]string, len(aliases))
	for name, slug := range aliases {
		normalized[strings.ToLower(strings.TrimSpace(name))] = slug
	}
	return &Resolver{aliases: normalized, lookup: lookup}
}

// Resolve returns the canonical slug for name. Empty input resolves to
// the empty string so optional picks pass through unchanged.
func (r *Resolver) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	if slug, ok := r.aliases[strings.ToLower(name)]; ok {
		return slug
	}

	if r.lookup != nil {
		if slug, ok := r.lookup.FindDriverSlug(name); ok {
			return slug
		}
	}

	return Slugify(name)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every non-alphanumeric run into a
// single dash.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
