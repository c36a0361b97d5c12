package domain

import "errors"

// Error kinds shared by the loader, the seed manager and the data layer.
// Callers branch on these with errors.Is; messages carry the step and path.
var (
	ErrNotFound              = errors.New("not found")
	ErrDependencyUnavailable = errors.New("external dependency unavailable")
	ErrExecution             = errors.New("execution failed")
	ErrIO                    = errors.New("io failure")
	ErrInvalid               = errors.New("invalid input")
	ErrConflict              = errors.New("conflict")
	ErrForbidden             = errors.New("forbidden")
)
