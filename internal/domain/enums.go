package domain

import (
	"fmt"
	"strings"
)

// Role identifies what a user may do. It never changes after the user is created.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleBusinessOwner Role = "business_owner"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleBusinessOwner
}

// ParseRole accepts only the two defined roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: role %q", ErrInvalid, s)
	}
	return r, nil
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransition reports whether an appointment may move from s to next.
// Setting the current status again is accepted as a no-op.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled || next == StatusCompleted
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

func ParseStatus(s string) (AppointmentStatus, error) {
	st := AppointmentStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", fmt.Errorf("%w: appointment status %q", ErrInvalid, s)
	}
	return st, nil
}

// Source records who entered an appointment.
type Source string

const (
	SourceCustomer    Source = "customer"
	SourceOwner       Source = "owner"
	SourceOwnerManual Source = "owner_manual"
)

func (s Source) Valid() bool {
	switch s {
	case SourceCustomer, SourceOwner, SourceOwnerManual:
		return true
	}
	return false
}

func ParseSource(s string) (Source, error) {
	src := Source(strings.TrimSpace(s))
	if src == "" {
		return SourceCustomer, nil
	}
	if !src.Valid() {
		return "", fmt.Errorf("%w: appointment source %q", ErrInvalid, s)
	}
	return src, nil
}

// Rating is a review score in [MinRating, MaxRating].
type Rating int

const (
	MinRating Rating = 1
	MaxRating Rating = 5
)

func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

func ParseRating(n int) (Rating, error) {
	r := Rating(n)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: rating %d must be between %d and %d", ErrInvalid, n, MinRating, MaxRating)
	}
	return r, nil
}
