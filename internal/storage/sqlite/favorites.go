package sqlite

import (
	"context"
	"fmt"

	"github.com/hetulpatel/Randex/internal/domain"
)

// AddFavorite records that the customer favorited the business. Adding an
// existing pair is a no-op; created reports whether a row was inserted.
func (s *Store) AddFavorite(ctx context.Context, customerID, businessID int64) (created bool, err error) {
	if _, err := s.GetBusiness(ctx, businessID); err != nil {
		return false, err
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (customer_id, business_id) VALUES (?, ?)`, customerID, businessID)
	if err != nil {
		return false, fmt.Errorf("add favorite %d/%d: %w", customerID, businessID, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveFavorite is idempotent.
func (s *Store) RemoveFavorite(ctx context.Context, customerID, businessID int64) error {
	if _, err := s.q.ExecContext(ctx,
		`DELETE FROM favorites WHERE customer_id = ? AND business_id = ?`, customerID, businessID); err != nil {
		return fmt.Errorf("remove favorite %d/%d: %w", customerID, businessID, classify(err))
	}
	return nil
}

// ListFavoriteBusinessIDs returns business ids in ascending order.
func (s *Store) ListFavoriteBusinessIDs(ctx context.Context, customerID int64) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT business_id FROM favorites WHERE customer_id = ? ORDER BY business_id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list favorites of customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListFavoriteBusinesses returns the favorited businesses with their review
// aggregate, most recently favorited first.
func (s *Store) ListFavoriteBusinesses(ctx context.Context, customerID int64) ([]domain.BusinessSummary, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+businessColumns+`,
	COALESCE(AVG(r.rating), 0), COUNT(DISTINCT r.id)
FROM favorites f
JOIN businesses b ON b.id = f.business_id
LEFT JOIN reviews r ON b.id = r.business_id
WHERE f.customer_id = ?
GROUP BY b.id
ORDER BY MAX(f.created_at) DESC, MAX(f.id) DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list favorite businesses of customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var out []domain.BusinessSummary
	for rows.Next() {
		sum, err := scanBusinessSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sum)
	}
	return out, rows.Err()
}
