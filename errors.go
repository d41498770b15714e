package lodger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("lodger: not found")
	ErrAlreadyExists = errors.New("lodger: already exists")
	ErrInvalidInput  = errors.New("lodger: invalid input")

	// Property errors
	ErrPropertyNotFound = errors.New("lodger: property not found")
	ErrPropertyInUse    = errors.New("lodger: property has rooms")

	// Room errors
	ErrRoomNotFound = errors.New("lodger: room not found")
	ErrRoomInUse    = errors.New("lodger: room has beds")
	ErrRoomFull     = errors.New("lodger: room is at capacity")

	// Bed errors
	ErrBedNotFound = errors.New("lodger: bed not found")
	ErrBedOccupied = errors.New("lodger: bed already has an open occupancy")
	ErrBedInUse    = errors.New("lodger: bed has occupancy history")

	// Tenant errors
	ErrTenantNotFound = errors.New("lodger: tenant not found")
	ErrTenantInactive = errors.New("lodger: tenant has left")
	ErrTenantOccupied = errors.New("lodger: tenant has an open occupancy")

	// Occupancy errors
	ErrOccupancyNotFound   = errors.New("lodger: occupancy not found")
	ErrOccupancyClosed     = errors.New("lodger: occupancy already closed")
	ErrNoOpenOccupancy     = errors.New("lodger: no open occupancy for bed")
	ErrTransferIncomplete  = errors.New("lodger: transfer left source occupancy closed")
	ErrEndBeforeStart      = errors.New("lodger: end date precedes start date")
	ErrOccupancyHasBilling = errors.New("lodger: occupancy has bills or payments")

	// Bill errors
	ErrBillNotFound        = errors.New("lodger: bill not found")
	ErrDuplicateBill       = errors.New("lodger: bill already exists for period")
	ErrBillPeriodOverlap   = errors.New("lodger: bill period overlaps an existing bill")
	ErrBillOutsideStay     = errors.New("lodger: bill period outside occupancy window")
	ErrBillHasPayments     = errors.New("lodger: bill has recorded payments")
	ErrInvalidPeriod       = errors.New("lodger: invalid billing period")
	ErrInvalidAmount       = errors.New("lodger: invalid amount")
	ErrCurrencyMismatch    = errors.New("lodger: currency mismatch")
	ErrTransactionNotFound = errors.New("lodger: transaction not found")

	// Fee errors
	ErrFeeNotFound  = errors.New("lodger: fee record not found")
	ErrDuplicateFee = errors.New("lodger: fee record already exists for month")

	// Store errors
	ErrStoreNotReady     = errors.New("lodger: store not ready")
	ErrStoreClosed       = errors.New("lodger: store is closed")
	ErrTransactionFailed = errors.New("lodger: transaction failed")
	ErrMigrationFailed   = errors.New("lodger: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("lodger: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "lodger: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("lodger: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPropertyNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrBedNotFound) ||
		errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrOccupancyNotFound) ||
		errors.Is(err, ErrNoOpenOccupancy) ||
		errors.Is(err, ErrBillNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrFeeNotFound)
}

// IsConflict returns true if the error is a state conflict that a retry
// with different input might resolve.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrBedOccupied) ||
		errors.Is(err, ErrOccupancyClosed) ||
		errors.Is(err, ErrDuplicateBill) ||
		errors.Is(err, ErrBillPeriodOverlap) ||
		errors.Is(err, ErrBillHasPayments) ||
		errors.Is(err, ErrDuplicateFee) ||
		errors.Is(err, ErrTenantOccupied)
}

// IsCapacityExceeded returns true if the error indicates a capacity limit.
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrRoomFull)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
