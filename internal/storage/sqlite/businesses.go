package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hetulpatel/Randex/internal/domain"
)

const businessColumns = `b.id, b.owner_id, b.name, b.type,
	COALESCE(b.description, ''), COALESCE(b.city, ''), COALESCE(b.district, ''),
	COALESCE(b.address, ''), COALESCE(b.phone, ''), COALESCE(b.image_url, ''),
	COALESCE(b.opening_time, ''), COALESCE(b.closing_time, ''),
	COALESCE(CAST(b.created_at AS TEXT), '')`

// BusinessFilter narrows SearchBusinesses. Zero values match everything.
type BusinessFilter struct {
	Type      string
	City      string
	District  string
	Search    string  // substring of name or description
	MinRating float64 // average rating threshold, 0 disables
	// ReviewCount is one of "0-50", "50-200" or "200+".
	ReviewCount string
	// Sort is "rating", "reviews" or empty for newest first.
	Sort string
}

// CreateBusiness inserts b and sets b.ID. The owner must be a business_owner.
func (s *Store) CreateBusiness(ctx context.Context, b *domain.Business) error {
	if err := b.Validate(); err != nil {
		return err
	}
	owner, err := s.GetUser(ctx, b.OwnerID)
	if err != nil {
		return err
	}
	if owner.Role != domain.RoleBusinessOwner {
		return fmt.Errorf("%w: user %d is not a business owner", domain.ErrForbidden, owner.ID)
	}
	res, err := s.q.ExecContext(ctx, `
INSERT INTO businesses (owner_id, name, type, description, city, district, address, phone, image_url, opening_time, closing_time)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.OwnerID, b.Name, b.Type,
		nullString(b.Description), nullString(b.City), nullString(b.District),
		nullString(b.Address), nullString(b.Phone), nullString(b.ImageURL),
		nullString(b.OpeningTime), nullString(b.ClosingTime),
	)
	if err != nil {
		return fmt.Errorf("insert business %s: %w", b.Name, classify(err))
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+businessColumns+` FROM businesses b WHERE b.id = ?`, id)
	b, err := scanBusiness(row)
	if err != nil {
		return nil, notFound(err, "business", id)
	}
	return b, nil
}

// ListBusinessesByOwner returns the owner's businesses, newest first.
func (s *Store) ListBusinessesByOwner(ctx context.Context, ownerID int64) ([]domain.Business, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+businessColumns+` FROM businesses b WHERE b.owner_id = ? ORDER BY b.created_at DESC, b.id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list businesses for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// SearchBusinesses lists businesses with their review aggregate.
func (s *Store) SearchBusinesses(ctx context.Context, f BusinessFilter) ([]domain.BusinessSummary, error) {
	var (
		where  []string
		having []string
		args   []any
	)
	if f.Type != "" {
		where = append(where, "b.type = ?")
		args = append(args, f.Type)
	}
	if f.City != "" {
		where = append(where, "b.city = ?")
		args = append(args, f.City)
	}
	if f.District != "" {
		where = append(where, "b.district = ?")
		args = append(args, f.District)
	}
	if f.Search != "" {
		where = append(where, "(b.name LIKE ? OR b.description LIKE ?)")
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}

	query := `SELECT ` + businessColumns + `,
	COALESCE(AVG(r.rating), 0), COUNT(DISTINCT r.id)
FROM businesses b
LEFT JOIN reviews r ON b.id = r.business_id`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nGROUP BY b.id"

	var havingArgs []any
	if f.MinRating > 0 {
		having = append(having, "AVG(r.rating) >= ?")
		havingArgs = append(havingArgs, f.MinRating)
	}
	switch f.ReviewCount {
	case "":
	case "0-50":
		having = append(having, "COUNT(DISTINCT r.id) BETWEEN 0 AND 50")
	case "50-200":
		having = append(having, "COUNT(DISTINCT r.id) BETWEEN 51 AND 200")
	case "200+":
		having = append(having, "COUNT(DISTINCT r.id) >= 201")
	default:
		return nil, fmt.Errorf("%w: review count range %q", domain.ErrInvalid, f.ReviewCount)
	}
	if len(having) > 0 {
		query += "\nHAVING " + strings.Join(having, " AND ")
		args = append(args, havingArgs...)
	}

	switch f.Sort {
	case "rating":
		query += "\nORDER BY AVG(r.rating) DESC, COUNT(DISTINCT r.id) DESC, b.id"
	case "reviews":
		query += "\nORDER BY COUNT(DISTINCT r.id) DESC, AVG(r.rating) DESC, b.id"
	case "":
		query += "\nORDER BY b.created_at DESC, b.id DESC"
	default:
		return nil, fmt.Errorf("%w: sort %q", domain.ErrInvalid, f.Sort)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search businesses: %w", err)
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

// DeleteBusiness removes a business with its appointments. Services, staff,
// settings, reviews and favorites go with it through ON DELETE CASCADE.
func (s *Store) DeleteBusiness(ctx context.Context, id int64) error {
	return s.InTx(ctx, func(tx *Store) error {
		if _, err := tx.GetBusiness(ctx, id); err != nil {
			return err
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM appointments WHERE business_id = ?`, id); err != nil {
			return fmt.Errorf("delete appointments of business %d: %w", id, classify(err))
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM businesses WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete business %d: %w", id, classify(err))
		}
		return nil
	})
}

func scanBusiness(row scanner) (*domain.Business, error) {
	var (
		b         domain.Business
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Type,
		&b.Description, &b.City, &b.District, &b.Address, &b.Phone, &b.ImageURL,
		&b.OpeningTime, &b.ClosingTime, &createdAt); err != nil {
		return nil, err
	}
	b.CreatedAt = parseTimestamp(createdAt)
	return &b, nil
}

func scanBusinessSummary(row scanner) (*domain.BusinessSummary, error) {
	var (
		sum       domain.BusinessSummary
		createdAt string
	)
	b := &sum.Business
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Type,
		&b.Description, &b.City, &b.District, &b.Address, &b.Phone, &b.ImageURL,
		&b.OpeningTime, &b.ClosingTime, &createdAt,
		&sum.AverageRating, &sum.ReviewCount); err != nil {
		return nil, err
	}
	b.CreatedAt = parseTimestamp(createdAt)
	return &sum, nil
}
