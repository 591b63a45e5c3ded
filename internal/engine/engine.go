// Package engine orchestrates the feature-derivation and classification
// pipeline over an in-memory record set.
package engine

import (
	"context"
	"log/slog"

	"github.com/gmendonca/selo/internal/heuristic"
	"github.com/gmendonca/selo/internal/model"
	"github.com/gmendonca/selo/internal/price"
	"github.com/gmendonca/selo/internal/stats"
	"github.com/gmendonca/selo/internal/trust"
)

// Diagnostics reports informational counters from a run. They never alter
// control flow and are not part of the data contract.
type Diagnostics struct {
	Rows          int
	CappedPrices  int
	CappedMeans   int
	MissingPrices int
}

// Attributes describes which recognized columns exist on the dataset. The
// pipeline degrades gracefully when any subset is absent.
type Attributes struct {
	HasPrice    bool
	HasSeller   bool
	HasCategory bool
	HasClaim    bool
	HasQuality  bool
}

// AllAttributes is the full-column dataset shape, useful for tests and for
// callers that build record sets programmatically.
func AllAttributes() Attributes {
	return Attributes{HasPrice: true, HasSeller: true, HasCategory: true, HasClaim: true, HasQuality: true}
}

// Engine runs the four pipeline stages in their mandatory order: price
// normalization, seller trust resolution, category statistics and deviation,
// heuristic classification. Each stage's output feeds the next.
type Engine struct {
	normalizer *price.Normalizer
	resolver   *trust.Resolver
	stats      *stats.Engine

	// OnProgress, when set, is called once per record during the final
	// classification pass. Used by the CLI to drive a progress bar.
	OnProgress func()
}

// Option customizes Engine construction.
type Option func(*Engine)

// WithNormalizer overrides the default price normalizer.
func WithNormalizer(n *price.Normalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

// WithResolver overrides the default seller trust resolver.
func WithResolver(r *trust.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithAvgCap overrides the category-mean plausibility cap.
func WithAvgCap(maxAvg float64) Option {
	return func(e *Engine) { e.stats.MaxPlausibleAvg = maxAvg }
}

// New builds an Engine with the built-in trust table and default caps.
func New(opts ...Option) *Engine {
	e := &Engine{
		normalizer: price.NewNormalizer(),
		resolver:   trust.NewResolver(trust.DefaultMap(), trust.DefaultTier),
		stats:      stats.NewEngine(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the pipeline over the record set. Derived fields are always
// recomputed from scratch, so re-running on already-labeled output reproduces
// identical results. The core has no fatal path: Run returns an error only on
// context cancellation, and every row always gets a label.
func (e *Engine) Run(ctx context.Context, listings []*model.Listing, attrs Attributes) (Diagnostics, error) {
	diag := Diagnostics{Rows: len(listings)}

	e.normalizePrices(listings, attrs, &diag)
	e.resolveTrust(listings, attrs)

	e.stats.HasPrice = attrs.HasPrice
	e.stats.HasCategory = attrs.HasCategory
	diag.CappedMeans = e.stats.Compute(listings)

	if err := ctx.Err(); err != nil {
		return diag, err
	}
	e.classify(listings, attrs)

	slog.Debug("pipeline run complete",
		"rows", diag.Rows,
		"capped_prices", diag.CappedPrices,
		"capped_means", diag.CappedMeans,
		"missing_prices", diag.MissingPrices)
	return diag, nil
}

func (e *Engine) normalizePrices(listings []*model.Listing, attrs Attributes, diag *Diagnostics) {
	if !attrs.HasPrice {
		for _, l := range listings {
			l.Price = nil
		}
		return
	}
	for _, l := range listings {
		v, capped := e.normalizer.Normalize(l.RawPrice)
		l.Price = v
		if capped {
			diag.CappedPrices++
		}
		if v == nil {
			diag.MissingPrices++
		}
	}
	if diag.CappedPrices > 0 {
		slog.Warn("implausible individual prices treated as missing",
			"count", diag.CappedPrices,
			"cap", e.normalizer.MaxPlausible)
	}
}

func (e *Engine) resolveTrust(listings []*model.Listing, attrs Attributes) {
	for _, l := range listings {
		if !attrs.HasSeller {
			l.SellerTrustLevel = trust.DefaultTier
			continue
		}
		l.SellerTrustLevel = e.resolver.Resolve(l.Seller)
	}
}

func (e *Engine) classify(listings []*model.Listing, attrs Attributes) {
	for _, l := range listings {
		if attrs.HasQuality {
			l.QualityScore = heuristic.CoerceQuality(l.RawQuality)
		} else {
			l.QualityScore = nil
		}

		var claim *string
		if attrs.HasClaim {
			claim = l.OriginalityClaim
		}

		l.Label = heuristic.Classify(heuristic.Features{
			Claim:        heuristic.NormalizeClaim(claim),
			TrustLevel:   l.SellerTrustLevel,
			Deviation:    l.PriceDeviation,
			QualityScore: l.QualityScore,
		})
		if e.OnProgress != nil {
			e.OnProgress()
		}
	}
}

// LabelCounts tallies the label distribution of a finished run for the
// end-of-run summary.
func LabelCounts(listings []*model.Listing) map[model.Label]int {
	counts := make(map[model.Label]int)
	for _, l := range listings {
		counts[l.Label]++
	}
	return counts
}
