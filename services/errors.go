package services

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors shared by the services. Controllers map these onto the
// HTTP error envelope; anything unwrapped becomes a generic 500.
var (
	// ErrNotFound covers both absent rows and rows outside the caller's
	// team scope, so cross-team existence never leaks.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller lacks the capability for the action
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the current state does not permit the action
	ErrConflict = errors.New("conflicting state")
	// ErrValidation means the input itself is invalid
	ErrValidation = errors.New("validation failed")
)

// asNotFound converts gorm's record-not-found into the service sentinel,
// passing other database errors through untouched
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
