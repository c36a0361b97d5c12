package sqlite

import (
	"context"
	"fmt"

	"github.com/hetulpatel/Randex/internal/domain"
)

const serviceColumns = `id, business_id, name, COALESCE(description, ''), price, duration, COALESCE(CAST(created_at AS TEXT), '')`

func (s *Store) CreateService(ctx context.Context, svc *domain.Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO services (business_id, name, description, price, duration) VALUES (?, ?, ?, ?, ?)`,
		svc.BusinessID, svc.Name, nullString(svc.Description), svc.Price, svc.Duration,
	)
	if err != nil {
		return fmt.Errorf("insert service %s: %w", svc.Name, classify(err))
	}
	svc.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	svc, err := scanService(row)
	if err != nil {
		return nil, notFound(err, "service", id)
	}
	return svc, nil
}

// GetBusinessService returns the service only if it belongs to businessID.
func (s *Store) GetBusinessService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.BusinessID != businessID {
		return nil, fmt.Errorf("%w: service %d for business %d", domain.ErrNotFound, serviceID, businessID)
	}
	return svc, nil
}

// ListServicesByBusiness orders by price, then id.
func (s *Store) ListServicesByBusiness(ctx context.Context, businessID int64) ([]domain.Service, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE business_id = ? ORDER BY price, id`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list services for business %d: %w", businessID, err)
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *svc)
	}
	return out, rows.Err()
}

// DeleteService refuses while appointments still reference the service.
func (s *Store) DeleteService(ctx context.Context, id int64) error {
	return s.InTx(ctx, func(tx *Store) error {
		if _, err := tx.GetService(ctx, id); err != nil {
			return err
		}
		var n int
		if err := tx.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments WHERE service_id = ?`, id).Scan(&n); err != nil {
			return fmt.Errorf("count appointments of service %d: %w", id, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: service %d has %d appointments", domain.ErrConflict, id, n)
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete service %d: %w", id, classify(err))
		}
		return nil
	})
}

func scanService(row scanner) (*domain.Service, error) {
	var (
		svc       domain.Service
		createdAt string
	)
	if err := row.Scan(&svc.ID, &svc.BusinessID, &svc.Name, &svc.Description, &svc.Price, &svc.Duration, &createdAt); err != nil {
		return nil, err
	}
	svc.CreatedAt = parseTimestamp(createdAt)
	return &svc, nil
}
