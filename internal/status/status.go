package status

import (
	"errors"
	"fmt"
)

// Kinds. Leaf errors below wrap exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrPrecondition = errors.New("precondition failed")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrDoctorNotFound     = fmt.Errorf("%w: doctor", ErrNotFound)
	ErrQueueEntryNotFound = fmt.Errorf("%w: queue entry", ErrNotFound)
	// ErrEntryNotOwned covers both a missing entry and one held by another doctor.
	ErrEntryNotOwned = fmt.Errorf("%w: queue entry not found or not assigned to this doctor", ErrNotFound)

	ErrRoomNotAssigned   = fmt.Errorf("%w: doctor must be assigned to a room before calling patients", ErrPrecondition)
	ErrInvalidTransition = fmt.Errorf("%w: invalid queue status transition", ErrPrecondition)

	ErrActiveEntryExists = fmt.Errorf("%w: patient already has an active queue entry", ErrConflict)
)

// Validation builds a validation error for a single field.
func Validation(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, msg)
}

// Kind returns the kind sentinel err belongs to, or nil for storage and other failures.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrPrecondition, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
