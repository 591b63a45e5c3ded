// Package heuristic assigns authenticity labels through an ordered rule
// cascade over originality claim, seller trust, price deviation, and quality
// score.
package heuristic

import (
	"math"
	"strconv"
	"strings"

	"github.com/gmendonca/selo/internal/model"
)

// Cascade thresholds. These are part of the output contract: the same input
// table must always produce the same labels, so they are constants rather
// than configuration.
const (
	suspectPirateDeviation = -0.40
	neutralPirateDeviation = -0.60
	lowQualityScore        = 2.5

	mildDiscount   = -0.20
	normalDiscount = -0.30
	deepDiscount   = -0.50

	neutralQuality = 3.0
)

// Claim token sets. The catalog mixes Portuguese source data with
// English-normalized feeds, so each set accepts both spellings.
var (
	compatibleClaims = tokenSet("compatível", "compatible")

	notOriginalClaims = tokenSet(
		"falso", "não original", "pirata", "suspeito", "alternativo",
		"false", "not original", "pirated", "suspicious", "alternative",
	)

	originalClaims = tokenSet(
		"original", "verdadeiro", "genuíno",
		"true", "genuine",
	)

	unknownClaims = tokenSet(
		model.SentinelClaim, "unknown", "nan", "na",
		strings.ToLower(model.SentinelCategory),
	)
)

// Features is the classifier input for one listing.
type Features struct {
	Claim        string // normalized: trimmed, lower-cased, sentinel for missing
	TrustLevel   int
	Deviation    float64
	QualityScore *float64 // nil when absent or non-numeric
}

// NormalizeClaim prepares a raw originality claim for rule evaluation.
// Missing claims normalize to the sentinel so the cascade's unknown branch
// handles them.
func NormalizeClaim(raw *string) string {
	if raw == nil {
		return model.SentinelClaim
	}
	s := strings.ToLower(strings.TrimSpace(*raw))
	if s == "" {
		return model.SentinelClaim
	}
	return s
}

// CoerceQuality parses a raw quality score, returning nil for blank or
// non-numeric text. A bad score is missing evidence, not an error.
func CoerceQuality(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// quality returns the score used in threshold comparisons: the real value
// when present, otherwise the neutral default.
func (f Features) quality() float64 {
	if f.QualityScore == nil {
		return neutralQuality
	}
	return *f.QualityScore
}

// rule is one guarded branch of the cascade. Rules are evaluated strictly in
// order; the first to return ok wins. Keeping them as a flat list keeps the
// precedence auditable and lets tests probe each rule in isolation.
type rule struct {
	name  string
	apply func(Features) (model.Label, bool)
}

var cascade = []rule{
	{"explicit compatible claim", explicitCompatible},
	{"explicit non-original claim", explicitNotOriginal},
	{"suspect seller red flags", suspectSellerSignals},
	{"neutral seller red flags", neutralSellerSignals},
	{"claimed original", claimedOriginal},
	{"originality unknown", originalityUnknown},
}

// Classify runs the cascade and always returns exactly one label. Pure and
// total: every combination of inputs resolves, through the explicit fallback
// if nothing stronger matches.
func Classify(f Features) model.Label {
	for _, r := range cascade {
		if label, ok := r.apply(f); ok {
			return label
		}
	}
	return model.LabelReviewUnclear
}

func explicitCompatible(f Features) (model.Label, bool) {
	if compatibleClaims[f.Claim] {
		return model.LabelCompatible, true
	}
	return "", false
}

func explicitNotOriginal(f Features) (model.Label, bool) {
	if notOriginalClaims[f.Claim] {
		return model.LabelDeclaredNotOriginal, true
	}
	return "", false
}

// suspectSellerSignals catches strong piracy indicators from tier-1 sellers.
// These outrank an "original" claim: a suspect seller undercutting the
// category norm is not believed.
func suspectSellerSignals(f Features) (model.Label, bool) {
	if f.TrustLevel != model.TrustSuspect {
		return "", false
	}
	if f.Deviation < suspectPirateDeviation {
		return model.LabelPiratePriceBadSeller, true
	}
	// The quality branch only fires on real evidence, never on the neutral
	// default substituted for a missing score.
	if f.QualityScore != nil && f.quality() < lowQualityScore {
		return model.LabelPirateQualityBadSeller, true
	}
	if originalClaims[f.Claim] && f.Deviation >= mildDiscount {
		return model.LabelReviewClaimedSuspect, true
	}
	return "", false
}

func neutralSellerSignals(f Features) (model.Label, bool) {
	if f.TrustLevel != model.TrustNeutral {
		return "", false
	}
	if f.Deviation < neutralPirateDeviation {
		return model.LabelPirateCheapNeutral, true
	}
	if originalClaims[f.Claim] && f.Deviation < normalDiscount {
		return model.LabelReviewClaimedNeutralCheap, true
	}
	return "", false
}

// claimedOriginal evaluates an explicit "original" claim once no red flag
// fired. The suspect-seller fallback here overlaps rule 3's claimed-original
// branch in intent but is reached on a different path (for example when a
// present low quality score was outranked by a deviation in [-0.40, -0.20));
// both branches are kept because precedence, not just condition, decides the
// label.
func claimedOriginal(f Features) (model.Label, bool) {
	if !originalClaims[f.Claim] {
		return "", false
	}
	switch f.TrustLevel {
	case model.TrustHigh:
		switch {
		case f.Deviation >= normalDiscount:
			return model.LabelOriginal, true
		case f.Deviation >= deepDiscount:
			return model.LabelReviewCheapTrusted, true
		default:
			return model.LabelReviewVeryCheapTrusted, true
		}
	case model.TrustNeutral:
		if f.Deviation >= mildDiscount {
			return model.LabelReviewClaimedNeutral, true
		}
	case model.TrustSuspect:
		return model.LabelReviewClaimedSuspect, true
	}
	return "", false
}

func originalityUnknown(f Features) (model.Label, bool) {
	if !unknownClaims[f.Claim] {
		return "", false
	}
	switch f.TrustLevel {
	case model.TrustHigh:
		if f.Deviation >= normalDiscount {
			return model.LabelLikelyOriginalTrusted, true
		}
		return model.LabelReviewUnknownTrustedCheap, true
	case model.TrustNeutral:
		return model.LabelReviewUnknownNeutral, true
	case model.TrustSuspect:
		if f.Deviation < normalDiscount {
			return model.LabelPirateUnknownSuspect, true
		}
		return model.LabelReviewUnknownSuspect, true
	}
	return "", false
}

func tokenSet(tokens ...string) map[string]bool {
	m := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		m[t] = true
	}
	return m
}
