package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrBookingCancelled = errors.New("booking is cancelled")
)

// DatesUnavailableError carries the exact nights that are over capacity so
// the caller can adjust the requested range.
type DatesUnavailableError struct {
	Dates []string
}

func (e *DatesUnavailableError) Error() string {
	return fmt.Sprintf("dates not available: %s", strings.Join(e.Dates, ", "))
}

// CardValidationError rejects payment input before anything is persisted.
type CardValidationError struct {
	Reason string
}

func (e *CardValidationError) Error() string {
	return e.Reason
}
