package domain

import (
	"errors"
	"fmt"
)

// Kind is the error taxonomy exposed to callers
type Kind string

const (
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindInvalidInput   Kind = "INVALID_INPUT"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindStorageFailure Kind = "STORAGE_FAILURE"
)

// Kind sentinels. Every domain error unwraps to exactly one of these.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrStorageFailure = errors.New("storage failure")
)

// kindError is a domain error with a human readable message and a kind
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Slot errors
var (
	ErrSlotNotFound          = newError(ErrNotFound, "slot not found")
	ErrSlotNotBookedByDriver = newError(ErrNotFound, "slot not found or not booked by this driver")
	ErrNoActiveSlot          = newError(ErrNotFound, "no booked slot found")
	ErrSlotOccupied          = newError(ErrConflict, "slot already booked")
	ErrSlotNumberTaken       = newError(ErrConflict, "slot already exists")
	ErrSlotNumberRequired    = newError(ErrInvalidInput, "slot number is required")
	ErrInvalidSlotStatus     = newError(ErrInvalidInput, "invalid slot status")
)

// Driver errors
var (
	ErrDriverNotFound      = newError(ErrNotFound, "driver not found")
	ErrDriverAlreadyParked = newError(ErrConflict, "driver already occupies a slot")
	ErrUserIDTaken         = newError(ErrConflict, "user id already exists")
	ErrInvalidCredentials  = newError(ErrUnauthorized, "invalid credentials")
	ErrOldPasswordWrong    = newError(ErrUnauthorized, "incorrect old password")
)

// Booking errors
var (
	ErrBookingNotFound = newError(ErrNotFound, "booking not found")
)

// InvalidInput builds an ad-hoc validation error
func InvalidInput(msg string) error {
	return newError(ErrInvalidInput, msg)
}

// StorageError wraps an unexpected persistence failure. The wrapped error stays
// reachable for logging through errors.Unwrap but Error() never exposes it.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	return &storageError{err: err}
}

type storageError struct {
	err error
}

func (e *storageError) Error() string {
	return ErrStorageFailure.Error()
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorageFailure, e.err}
}

// Cause returns the underlying persistence error text for server-side logs
func (e *storageError) Cause() string {
	return fmt.Sprintf("%v", e.err)
}

// KindOf classifies err into the taxonomy. Unknown errors are storage failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindStorageFailure
	}
}
