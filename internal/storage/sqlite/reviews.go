package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hetulpatel/Randex/internal/domain"
)

const reviewColumns = `r.id, r.business_id, r.customer_id, r.rating, COALESCE(r.comment, ''),
	COALESCE(u.name, ''), COALESCE(CAST(r.created_at AS TEXT), '')`

// CreateReview inserts r and sets r.ID. Eligibility is checked by the caller.
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO reviews (business_id, customer_id, rating, comment) VALUES (?, ?, ?, ?)`,
		r.BusinessID, r.CustomerID, int(r.Rating), nullString(r.Comment),
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", classify(err))
	}
	r.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+reviewColumns+`
FROM reviews r LEFT JOIN users u ON r.customer_id = u.id WHERE r.id = ?`, id)
	r, err := scanReview(row)
	if err != nil {
		return nil, notFound(err, "review", id)
	}
	return r, nil
}

// ListReviewsByBusiness returns reviews newest first with the reviewer's name.
func (s *Store) ListReviewsByBusiness(ctx context.Context, businessID int64) ([]domain.Review, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+reviewColumns+`
FROM reviews r
LEFT JOIN users u ON r.customer_id = u.id
WHERE r.business_id = ?
ORDER BY r.created_at DESC, r.id DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for business %d: %w", businessID, err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) HasReview(ctx context.Context, businessID, customerID int64) (bool, error) {
	var one int
	err := s.q.QueryRowContext(ctx,
		`SELECT 1 FROM reviews WHERE business_id = ? AND customer_id = ? LIMIT 1`, businessID, customerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return true, nil
}

// UpdateReview changes rating and comment of a review written by customerID.
func (s *Store) UpdateReview(ctx context.Context, id, customerID int64, rating domain.Rating, comment string) error {
	if !rating.Valid() {
		return fmt.Errorf("%w: rating %d must be between %d and %d", domain.ErrInvalid, rating, domain.MinRating, domain.MaxRating)
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE reviews SET rating = ?, comment = ? WHERE id = ? AND customer_id = ?`,
		int(rating), nullString(comment), id, customerID)
	if err != nil {
		return fmt.Errorf("update review %d: %w", id, classify(err))
	}
	return expectRow(res, "review", id)
}

// DeleteReview removes a review written by customerID.
func (s *Store) DeleteReview(ctx context.Context, id, customerID int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM reviews WHERE id = ? AND customer_id = ?`, id, customerID)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, classify(err))
	}
	return expectRow(res, "review", id)
}

func scanReview(row scanner) (*domain.Review, error) {
	var (
		r         domain.Review
		rating    int
		createdAt string
	)
	if err := row.Scan(&r.ID, &r.BusinessID, &r.CustomerID, &rating, &r.Comment, &r.CustomerName, &createdAt); err != nil {
		return nil, err
	}
	r.Rating = domain.Rating(rating)
	r.CreatedAt = parseTimestamp(createdAt)
	return &r, nil
}
