// Package model defines the core domain models used throughout the application.
package model

// Listing represents a single product row from a marketplace catalog.
//
// Raw columns are kept as read so the writer can reproduce the source table;
// derived fields are recomputed on every run and overwrite whatever the input
// carried under the same column names.
type Listing struct {
	Title            string
	RawPrice         string // price text as it appeared in the source, e.g. "R$ 1.234,56"
	Seller           *string
	Category         string // normalized; never blank after the stats pass
	OriginalityClaim *string
	RawQuality       string

	// Derived.
	Price            *float64 // nil when missing, unparseable, or capped
	QualityScore     *float64
	SellerTrustLevel int
	CategoryAvgPrice *float64
	PriceDeviation   float64
	Label            Label

	// Extra holds source columns the pipeline does not interpret, keyed by
	// header name, so they survive a read-classify-write round trip.
	Extra map[string]string
}

// Seller trust tiers. Every listing resolves to exactly one of these.
const (
	TrustSuspect = 1
	TrustNeutral = 2
	TrustHigh    = 3
)

// SentinelCategory replaces blank or "nan"-like category text so that invalid
// categories still group together for the mean computation.
const SentinelCategory = "CATEGORIA_AUSENTE_OU_INVALIDA"

// SentinelClaim is what a missing originality claim normalizes to.
const SentinelClaim = "desconhecido"
