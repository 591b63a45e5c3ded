package engine

import (
	"context"
	"math"
	"testing"

	"github.com/gmendonca/selo/internal/model"
	"github.com/gmendonca/selo/internal/price"
	"github.com/gmendonca/selo/internal/trust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(title, rawPrice, seller, category, claim, quality string) *model.Listing {
	l := &model.Listing{
		Title:      title,
		RawPrice:   rawPrice,
		Category:   category,
		RawQuality: quality,
	}
	if seller != "" {
		l.Seller = &seller
	}
	if claim != "" {
		l.OriginalityClaim = &claim
	}
	return l
}

func TestEngine_Run_EndToEnd(t *testing.T) {
	listings := []*model.Listing{
		listing("cartucho 664 preto", "R$ 100,00", "KABUM", "664", "original", "4.5"),
		listing("cartucho 664 colorido", "R$ 100,00", "KABUM", "664", "original", "4.0"),
		listing("cartucho 664 barato", "50", "INKCOR", "664", "original", ""),
		listing("cartucho 664 pirata", "90", "LOJA X", "664", "pirata", "1.0"),
	}

	diag, err := New().Run(context.Background(), listings, AllAttributes())
	require.NoError(t, err)
	assert.Equal(t, 4, diag.Rows)
	assert.Zero(t, diag.CappedPrices)

	// Category mean over the four priced rows: (100+100+50+90)/4 = 85.
	require.NotNil(t, listings[0].CategoryAvgPrice)
	assert.InDelta(t, 85.0, *listings[0].CategoryAvgPrice, 1e-9)

	// KABUM is trusted and priced above the mean: original.
	assert.Equal(t, model.TrustHigh, listings[0].SellerTrustLevel)
	assert.Equal(t, model.LabelOriginal, listings[0].Label)

	// INKCOR is suspect and 50 is ~41% below the mean: probable pirate.
	assert.Equal(t, model.TrustSuspect, listings[2].SellerTrustLevel)
	assert.Equal(t, model.LabelPiratePriceBadSeller, listings[2].Label)

	// Declared pirate regardless of unknown seller.
	assert.Equal(t, model.LabelDeclaredNotOriginal, listings[3].Label)
}

func TestEngine_Run_Scenarios(t *testing.T) {
	t.Run("trusted seller, claimed original, price at the mean", func(t *testing.T) {
		listings := []*model.Listing{
			listing("a", "100", "KABUM", "664", "original", ""),
			listing("b", "100", "KABUM", "664", "original", ""),
		}
		_, err := New().Run(context.Background(), listings, AllAttributes())
		require.NoError(t, err)
		for _, l := range listings {
			assert.Equal(t, 0.0, l.PriceDeviation)
			assert.Equal(t, model.LabelOriginal, l.Label)
		}
	})

	t.Run("all recognized attributes missing", func(t *testing.T) {
		listings := []*model.Listing{{Title: "misterio"}}
		diag, err := New().Run(context.Background(), listings, Attributes{})
		require.NoError(t, err)
		assert.Equal(t, 1, diag.Rows)

		l := listings[0]
		assert.Equal(t, trust.DefaultTier, l.SellerTrustLevel)
		assert.Nil(t, l.Price)
		assert.Equal(t, 0.0, l.PriceDeviation)
		assert.Equal(t, model.LabelReviewUnknownSuspect, l.Label)
	})

	t.Run("capped category mean zeroes every deviation in the category", func(t *testing.T) {
		listings := []*model.Listing{
			listing("a", "7000", "KABUM", "plotter", "original", ""),
			listing("b", "5000", "KABUM", "plotter", "original", ""),
		}
		diag, err := New().Run(context.Background(), listings, AllAttributes())
		require.NoError(t, err)
		assert.Equal(t, 1, diag.CappedMeans)
		for _, l := range listings {
			assert.Nil(t, l.CategoryAvgPrice)
			assert.Equal(t, 0.0, l.PriceDeviation)
		}
	})

	t.Run("nan price text does not poison the category mean", func(t *testing.T) {
		listings := []*model.Listing{
			listing("sem preco", "nan", "KABUM", "664", "original", ""),
			listing("ok", "100", "KABUM", "664", "original", ""),
		}
		diag, err := New().Run(context.Background(), listings, AllAttributes())
		require.NoError(t, err)
		assert.Equal(t, 1, diag.MissingPrices)

		assert.Nil(t, listings[0].Price)
		for _, l := range listings {
			require.NotNil(t, l.CategoryAvgPrice)
			require.False(t, math.IsNaN(*l.CategoryAvgPrice))
			assert.InDelta(t, 100.0, *l.CategoryAvgPrice, 1e-9)
		}
		assert.Equal(t, 0.0, listings[0].PriceDeviation)
		assert.Equal(t, model.LabelOriginal, listings[1].Label)
	})

	t.Run("capped individual price becomes missing evidence", func(t *testing.T) {
		listings := []*model.Listing{
			listing("typo", "R$ 199.990,00", "KABUM", "664", "original", ""),
			listing("ok", "100", "KABUM", "664", "original", ""),
		}
		diag, err := New().Run(context.Background(), listings, AllAttributes())
		require.NoError(t, err)
		assert.Equal(t, 1, diag.CappedPrices)

		// The capped row does not shape the mean but still gets one.
		require.NotNil(t, listings[0].CategoryAvgPrice)
		assert.InDelta(t, 100.0, *listings[0].CategoryAvgPrice, 1e-9)
		assert.Equal(t, 0.0, listings[0].PriceDeviation)
	})
}

func TestEngine_Run_Idempotent(t *testing.T) {
	build := func() []*model.Listing {
		return []*model.Listing{
			listing("a", "R$ 120,00", "KABUM", "664", "original", "4.5"),
			listing("b", "80,00", "INKCOR", "664", "", "2.0"),
			listing("c", "95", "SIAD8238404", "122", "compatível", ""),
			listing("d", "", "", "", "", ""),
		}
	}

	first := build()
	_, err := New().Run(context.Background(), first, AllAttributes())
	require.NoError(t, err)

	// Re-run on rows that still carry the derived values from the first
	// pass; everything must be recomputed to identical results.
	second := build()
	_, err = New().Run(context.Background(), second, AllAttributes())
	require.NoError(t, err)
	_, err = New().Run(context.Background(), second, AllAttributes())
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Label, second[i].Label)
		assert.Equal(t, first[i].SellerTrustLevel, second[i].SellerTrustLevel)
		assert.Equal(t, first[i].PriceDeviation, second[i].PriceDeviation)
		if first[i].CategoryAvgPrice == nil {
			assert.Nil(t, second[i].CategoryAvgPrice)
		} else {
			require.NotNil(t, second[i].CategoryAvgPrice)
			assert.Equal(t, *first[i].CategoryAvgPrice, *second[i].CategoryAvgPrice)
		}
	}
}

func TestEngine_Run_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	listings := []*model.Listing{listing("a", "100", "KABUM", "664", "original", "")}
	_, err := New().Run(ctx, listings, AllAttributes())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Options(t *testing.T) {
	eng := New(
		engineWithTightCaps()...,
	)

	listings := []*model.Listing{
		listing("a", "150", "LOJA A", "664", "original", ""),
		listing("b", "50", "LOJA A", "664", "original", ""),
	}
	diag, err := eng.Run(context.Background(), listings, AllAttributes())
	require.NoError(t, err)

	// 150 is above the tightened individual cap.
	assert.Equal(t, 1, diag.CappedPrices)
	// The remaining mean (50) is above the tightened average cap.
	assert.Equal(t, 1, diag.CappedMeans)
	// LOJA A resolves through the custom map.
	assert.Equal(t, model.TrustHigh, listings[0].SellerTrustLevel)
}

func engineWithTightCaps() []Option {
	return []Option{
		WithNormalizer(&price.Normalizer{MaxPlausible: 100}),
		WithResolver(trust.NewResolver(trust.Map{"LOJA A": model.TrustHigh}, trust.DefaultTier)),
		WithAvgCap(40),
	}
}

func TestLabelCounts(t *testing.T) {
	listings := []*model.Listing{
		{Label: model.LabelOriginal},
		{Label: model.LabelOriginal},
		{Label: model.LabelCompatible},
	}
	counts := LabelCounts(listings)
	assert.Equal(t, 2, counts[model.LabelOriginal])
	assert.Equal(t, 1, counts[model.LabelCompatible])
}
