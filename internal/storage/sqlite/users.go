package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hetulpatel/Randex/internal/domain"
)

const userColumns = `id, email, password, name, COALESCE(phone, ''), role, COALESCE(CAST(created_at AS TEXT), '')`

// CreateUser inserts u and sets u.ID. The role is fixed from here on.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO users (email, password, name, phone, role) VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(u.Email), u.Password, u.Name, nullString(u.Phone), string(u.Role),
	)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.Email, classify(err))
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.TrimSpace(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", email, err)
	}
	return u, nil
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &role, &createdAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = parseTimestamp(createdAt)
	return &u, nil
}
