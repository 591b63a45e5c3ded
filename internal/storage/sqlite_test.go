package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gmendonca/selo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "selo.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func sampleListings() []*model.Listing {
	seller := "KABUM"
	claim := "original"
	return []*model.Listing{
		{
			Title:            "Cartucho 664 Preto",
			Price:            fptr(89.9),
			Seller:           &seller,
			Category:         "664",
			OriginalityClaim: &claim,
			QualityScore:     fptr(4.5),
			SellerTrustLevel: model.TrustHigh,
			CategoryAvgPrice: fptr(90),
			PriceDeviation:   -0.0011,
			Label:            model.LabelOriginal,
		},
		{
			Title:            "Cartucho misterioso",
			Category:         model.SentinelCategory,
			SellerTrustLevel: model.TrustSuspect,
			Label:            model.LabelReviewUnknownSuspect,
		},
	}
}

func TestSQLiteStore_SaveRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, sampleListings()))

	counts, err := store.LabelCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.LabelOriginal])
	assert.Equal(t, 1, counts[model.LabelReviewUnknownSuspect])
}

func TestSQLiteStore_SaveRunReplacesPreviousRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, sampleListings()))
	require.NoError(t, store.SaveRun(ctx, sampleListings()[:1]))

	counts, err := store.LabelCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.LabelOriginal])
	assert.NotContains(t, counts, model.LabelReviewUnknownSuspect)
}

func TestSQLiteStore_NullableColumns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, sampleListings()))

	var price, avg, quality any
	var seller, claim any
	row := store.db.QueryRowContext(ctx,
		`SELECT price, category_avg_price, quality_score, seller, originality_claim
		 FROM listings WHERE title = ?`, "Cartucho misterioso")
	require.NoError(t, row.Scan(&price, &avg, &quality, &seller, &claim))
	assert.Nil(t, price)
	assert.Nil(t, avg)
	assert.Nil(t, quality)
	assert.Nil(t, seller)
	assert.Nil(t, claim)
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)
}

func fptr(v float64) *float64 {
	return &v
}
