package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gmendonca/selo/internal/model"
)

// SaveRun replaces the listings table content with the given run's rows.
// Each classify run is a full snapshot, not an append: the database mirrors
// the latest output table the same way the CSV output does.
func (s *SQLiteStore) SaveRun(ctx context.Context, listings []*model.Listing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings`); err != nil {
		return fmt.Errorf("failed to clear previous run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (
			title, price, seller, category, originality_claim, quality_score,
			seller_trust_level, category_avg_price, price_deviation, label
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, l := range listings {
		_, err := stmt.ExecContext(ctx,
			l.Title,
			nullFloat(l.Price),
			nullString(l.Seller),
			l.Category,
			nullString(l.OriginalityClaim),
			nullFloat(l.QualityScore),
			l.SellerTrustLevel,
			nullFloat(l.CategoryAvgPrice),
			l.PriceDeviation,
			string(l.Label),
		)
		if err != nil {
			return fmt.Errorf("failed to insert listing %q: %w", l.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// LabelCounts returns the stored label distribution, for inspection tooling
// and tests.
func (s *SQLiteStore) LabelCounts(ctx context.Context) (map[model.Label]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, COUNT(*) FROM listings GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("failed to query label counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[model.Label]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("failed to scan label count: %w", err)
		}
		counts[model.Label(label)] = n
	}
	return counts, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
