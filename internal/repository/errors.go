// Package repository holds the SQL data access layer. The sentinel errors
// below let handlers tell failure kinds apart with errors.Is; everything
// else is a raw driver error.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the addressed row does not exist. Handlers
// translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput marks a request that failed validation before any write.
var ErrInvalidInput = errors.New("invalid input")

// ErrConflict is returned when an operation cannot proceed because of the
// current state of related rows. Handlers translate it into a 409.
var ErrConflict = errors.New("conflict")

// ErrTableNotFound is returned when a reservation names a table that does
// not exist.
var ErrTableNotFound = fmt.Errorf("%w: table", ErrNotFound)

// ErrUsernameExists is returned by UserRepo.Create on a duplicate username.
var ErrUsernameExists = fmt.Errorf("%w: username already exists", ErrConflict)

// ErrCapacityExceeded is returned when a party does not fit at a table.
var ErrCapacityExceeded = fmt.Errorf("%w: party size exceeds table capacity", ErrInvalidInput)

// ErrTableNotAvailable is returned when assigning a table that is not free.
var ErrTableNotAvailable = fmt.Errorf("%w: table is not available", ErrConflict)

// ErrInvalidTransition is returned in strict mode for a status change the
// transition table does not allow.
var ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)

// CategoryInUseError is returned when a category still has products and no
// reassignment target was given.
type CategoryInUseError struct {
	Products int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category is referenced by %d products", e.Products)
}

func (e *CategoryInUseError) Unwrap() error { return ErrConflict }

// invalid wraps ErrInvalidInput with a message for the caller.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
