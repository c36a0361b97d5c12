// Package accounts registers users and checks their credentials against the
// bcrypt hashes stored in the users table.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

const DefaultCost = 10

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrForbidden)

type Service struct {
	Store *sqlite.Store
	Cost  int
}

type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string
}

func New(store *sqlite.Store) *Service {
	return &Service{Store: store, Cost: DefaultCost}
}

// Register creates the user. A taken email fails with domain.ErrConflict.
func (s *Service) Register(ctx context.Context, r Registration) (*domain.User, error) {
	email := strings.TrimSpace(r.Email)
	if email == "" || r.Password == "" || strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Role) == "" {
		return nil, fmt.Errorf("%w: email, password, name and role are required", domain.ErrInvalid)
	}
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return nil, err
	}
	cost := s.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Email: email, Password: string(hash), Name: strings.TrimSpace(r.Name), Phone: strings.TrimSpace(r.Phone), Role: role}
	if err := s.Store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: email %s already exists", domain.ErrConflict, email)
		}
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user when password matches the stored hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalid)
	}
	u, err := s.Store.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
