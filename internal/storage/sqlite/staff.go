package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hetulpatel/Randex/internal/domain"
)

const staffColumns = `st.id, st.business_id, st.name, COALESCE(st.active, 1), COALESCE(CAST(st.created_at AS TEXT), '')`

// CreateStaff inserts st as active and sets st.ID.
func (s *Store) CreateStaff(ctx context.Context, st *domain.Staff) error {
	if err := st.Validate(); err != nil {
		return err
	}
	st.Active = true
	res, err := s.q.ExecContext(ctx, `INSERT INTO staff (business_id, name, active) VALUES (?, ?, 1)`, st.BusinessID, st.Name)
	if err != nil {
		return fmt.Errorf("insert staff %s: %w", st.Name, classify(err))
	}
	st.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff st WHERE st.id = ?`, id)
	st, err := scanStaff(row)
	if err != nil {
		return nil, notFound(err, "staff", id)
	}
	return st, nil
}

func (s *Store) ListStaffByBusiness(ctx context.Context, businessID int64) ([]domain.Staff, error) {
	return s.queryStaff(ctx, `SELECT `+staffColumns+` FROM staff st WHERE st.business_id = ? ORDER BY st.id`, businessID)
}

// UpdateStaff changes name and active flag.
func (s *Store) UpdateStaff(ctx context.Context, st *domain.Staff) error {
	if err := st.Validate(); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, `UPDATE staff SET name = ?, active = ? WHERE id = ?`, st.Name, st.Active, st.ID)
	if err != nil {
		return fmt.Errorf("update staff %d: %w", st.ID, classify(err))
	}
	return expectRow(res, "staff", st.ID)
}

func (s *Store) SetStaffActive(ctx context.Context, id int64, active bool) error {
	res, err := s.q.ExecContext(ctx, `UPDATE staff SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("update staff %d: %w", id, classify(err))
	}
	return expectRow(res, "staff", id)
}

// LinkStaffService marks staff as able to perform service. Both must belong to
// the same business. Linking twice is a no-op.
func (s *Store) LinkStaffService(ctx context.Context, staffID, serviceID int64) error {
	st, err := s.GetStaff(ctx, staffID)
	if err != nil {
		return err
	}
	if _, err := s.GetBusinessService(ctx, st.BusinessID, serviceID); err != nil {
		return fmt.Errorf("%w: service %d does not belong to business %d", domain.ErrInvalid, serviceID, st.BusinessID)
	}
	if _, err := s.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO staff_services (staff_id, service_id) VALUES (?, ?)`, staffID, serviceID); err != nil {
		return fmt.Errorf("link staff %d to service %d: %w", staffID, serviceID, classify(err))
	}
	return nil
}

// SetStaffServices replaces the full set of services a staff member performs.
// Every service must belong to the staff member's business.
func (s *Store) SetStaffServices(ctx context.Context, staffID int64, serviceIDs []int64) error {
	ids := uniqueIDs(serviceIDs)
	return s.InTx(ctx, func(tx *Store) error {
		st, err := tx.GetStaff(ctx, staffID)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
			args := make([]any, 0, len(ids)+1)
			for _, id := range ids {
				args = append(args, id)
			}
			args = append(args, st.BusinessID)
			var n int
			if err := tx.q.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM services WHERE id IN (`+placeholders+`) AND business_id = ?`, args...).Scan(&n); err != nil {
				return fmt.Errorf("validate services: %w", err)
			}
			if n != len(ids) {
				return fmt.Errorf("%w: all services must belong to business %d", domain.ErrInvalid, st.BusinessID)
			}
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM staff_services WHERE staff_id = ?`, staffID); err != nil {
			return fmt.Errorf("clear services of staff %d: %w", staffID, classify(err))
		}
		for _, id := range ids {
			if _, err := tx.q.ExecContext(ctx,
				`INSERT INTO staff_services (staff_id, service_id) VALUES (?, ?)`, staffID, id); err != nil {
				return fmt.Errorf("link staff %d to service %d: %w", staffID, id, classify(err))
			}
		}
		return nil
	})
}

// ListStaffServiceIDs returns service ids in ascending order.
func (s *Store) ListStaffServiceIDs(ctx context.Context, staffID int64) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT service_id FROM staff_services WHERE staff_id = ? ORDER BY service_id`, staffID)
	if err != nil {
		return nil, fmt.Errorf("list services of staff %d: %w", staffID, err)
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

// EligibleStaff returns active staff of the business linked to the service.
// Staff with fewer linked services come first so generalists stay free; ties
// go to the lower id.
func (s *Store) EligibleStaff(ctx context.Context, businessID, serviceID int64) ([]domain.Staff, error) {
	return s.queryStaff(ctx, `
SELECT `+staffColumns+`
FROM staff st
JOIN staff_services ss ON ss.staff_id = st.id
WHERE st.business_id = ? AND st.active = 1 AND ss.service_id = ?
ORDER BY (SELECT COUNT(*) FROM staff_services x WHERE x.staff_id = st.id), st.id`, businessID, serviceID)
}

func (s *Store) queryStaff(ctx context.Context, query string, args ...any) ([]domain.Staff, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	var out []domain.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func scanStaff(row scanner) (*domain.Staff, error) {
	var (
		st        domain.Staff
		createdAt string
	)
	if err := row.Scan(&st.ID, &st.BusinessID, &st.Name, &st.Active, &createdAt); err != nil {
		return nil, err
	}
	st.CreatedAt = parseTimestamp(createdAt)
	return &st, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
