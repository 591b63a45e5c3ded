// Package trust maps seller names to trust tiers.
package trust

import (
	"strings"

	"github.com/gmendonca/selo/internal/model"
)

// Map is an immutable lookup from normalized seller name (trimmed,
// upper-cased) to trust tier.
type Map map[string]int

// DefaultTier is the tier assigned to unknown or missing sellers. Unknown
// sellers are treated as suspect on purpose: absence of reputation is itself
// a signal in this domain.
const DefaultTier = model.TrustSuspect

// DefaultMap is the built-in seller reputation table. Callers may replace it
// wholesale through configuration; it is never mutated.
func DefaultMap() Map {
	return Map{
		"CARREFOUR":         model.TrustHigh,
		"OBERO INFORMATICA": model.TrustHigh,
		"HP OFICIAL":        model.TrustHigh,
		"MAGAZINE LUIZA":    model.TrustHigh,
		"AMERICANAS":        model.TrustHigh,
		"KABUM":             model.TrustHigh,

		"INKCOR":            model.TrustSuspect,
		"CASAPRINT SPEED":   model.TrustSuspect,
		"PARK ECOM":         model.TrustSuspect,
		"JRWIMPORTACAO":     model.TrustSuspect,
		"TONER SHOPS":       model.TrustSuspect,
		"VANMASTERCOMERCIO": model.TrustSuspect,
		"ESHOP":             model.TrustSuspect,
		"OUTLET PREÇOBAIXO": model.TrustSuspect,
		"SARAIVA COMERCIO":  model.TrustSuspect,
		"SCOTCH":            model.TrustSuspect,

		"SIAD8238404": model.TrustNeutral,
	}
}

// Resolver resolves seller names against a trust map. The zero value is not
// usable; construct with NewResolver.
type Resolver struct {
	m        Map
	fallback int
}

// NewResolver builds a Resolver over the given map and default tier.
func NewResolver(m Map, fallback int) *Resolver {
	return &Resolver{m: m, fallback: fallback}
}

// Resolve returns the trust tier for a raw seller name. Missing or blank
// names, and names not in the map, resolve to the default tier. Pure and
// total; it never fails.
func (r *Resolver) Resolve(seller *string) int {
	if seller == nil {
		return r.fallback
	}
	key := strings.ToUpper(strings.TrimSpace(*seller))
	if key == "" {
		return r.fallback
	}
	if tier, ok := r.m[key]; ok {
		return tier
	}
	return r.fallback
}
