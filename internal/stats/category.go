// Package stats computes per-category price statistics and each listing's
// deviation from its category norm.
package stats

import (
	"math"
	"strings"

	"github.com/gmendonca/selo/internal/model"
)

// DefaultMaxPlausibleAvg caps computed category means. A category whose mean
// falls outside (0, cap] is treated as statistically unreliable and every row
// in it gets a nil mean.
const DefaultMaxPlausibleAvg = 5000.00

// Engine attaches capped category means and relative price deviations to a
// record set.
type Engine struct {
	MaxPlausibleAvg float64

	// HasCategory reports whether the category attribute exists on the
	// dataset at all. When false the engine falls back to one global mean.
	HasCategory bool

	// HasPrice reports whether the price attribute exists on the dataset.
	// Without it no mean is computable and every deviation is 0.
	HasPrice bool
}

// NewEngine returns an Engine with the default average cap for a dataset that
// carries both price and category attributes.
func NewEngine() *Engine {
	return &Engine{MaxPlausibleAvg: DefaultMaxPlausibleAvg, HasCategory: true, HasPrice: true}
}

// NormalizeCategory trims category text and maps blank or "nan"-like values
// to the sentinel category.
func NormalizeCategory(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "nan", "none":
		return model.SentinelCategory
	}
	return s
}

// Compute derives CategoryAvgPrice and PriceDeviation for every listing.
// Pre-existing values in those fields are ignored and overwritten: statistics
// are never trusted from an external source. It returns the number of
// category means discarded by the cap.
func (e *Engine) Compute(listings []*model.Listing) int {
	if !e.HasPrice {
		for _, l := range listings {
			l.CategoryAvgPrice = nil
			l.PriceDeviation = 0
		}
		return 0
	}

	if !e.HasCategory {
		return e.computeGlobal(listings)
	}

	for _, l := range listings {
		l.Category = NormalizeCategory(l.Category)
	}

	// Fold rows with both a price and a category into per-category sums.
	// The sentinel category is a valid grouping key: invalid-category rows
	// with prices still form their own cohort, matching the source data's
	// behavior where the sentinel is just another category value.
	type agg struct {
		sum   float64
		count int
	}
	byCategory := make(map[string]*agg)
	for _, l := range listings {
		if l.Price == nil {
			continue
		}
		a := byCategory[l.Category]
		if a == nil {
			a = &agg{}
			byCategory[l.Category] = a
		}
		a.sum += *l.Price
		a.count++
	}

	var capped int
	means := make(map[string]float64, len(byCategory))
	for cat, a := range byCategory {
		mean := a.sum / float64(a.count)
		if e.implausible(mean) {
			capped++
			continue
		}
		means[cat] = mean
	}

	for _, l := range listings {
		if mean, ok := means[l.Category]; ok {
			m := mean
			l.CategoryAvgPrice = &m
		} else {
			l.CategoryAvgPrice = nil
		}
		l.PriceDeviation = deviation(l.Price, l.CategoryAvgPrice)
	}
	return capped
}

// computeGlobal handles the degenerate dataset with no category attribute:
// one mean over all priced rows, capped by the same rule, shared by everyone.
func (e *Engine) computeGlobal(listings []*model.Listing) int {
	var sum float64
	var count int
	for _, l := range listings {
		if l.Price != nil {
			sum += *l.Price
			count++
		}
	}

	var capped int
	var global *float64
	if count > 0 {
		mean := sum / float64(count)
		if e.implausible(mean) {
			capped++
		} else {
			global = &mean
		}
	}

	for _, l := range listings {
		if global != nil {
			m := *global
			l.CategoryAvgPrice = &m
		} else {
			l.CategoryAvgPrice = nil
		}
		l.PriceDeviation = deviation(l.Price, l.CategoryAvgPrice)
	}
	return capped
}

func (e *Engine) implausible(mean float64) bool {
	return mean <= 0 || mean > e.MaxPlausibleAvg
}

// deviation computes (price - mean) / mean. A missing operand or a
// non-finite ratio resolves to exactly 0: zero deviation means "no evidence
// either way", which is deliberately distinct from a missing price.
func deviation(p, mean *float64) float64 {
	if p == nil || mean == nil {
		return 0
	}
	d := (*p - *mean) / *mean
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return 0
	}
	return d
}
