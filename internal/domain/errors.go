package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound            = errors.New("record not found")
	ErrShowingNotFound           = errors.New("showing not found")
	ErrHoldNotFound              = errors.New("hold not found")
	ErrHoldExpired               = errors.New("hold has expired")
	ErrNotOwner                  = errors.New("hold belongs to a different holder")
	ErrSeatAlreadyHeld           = errors.New("seat(s) are already held")
	ErrSeatAlreadyBooked         = errors.New("seat(s) are already booked")
	ErrInvalidSeatSelection      = errors.New("invalid seat selection")
	ErrDuplicatePaymentReference = errors.New("payment reference already used")
)

// SeatConflictError carries the seat codes that caused a hold or booking attempt
// to fail, so callers can re-render their selection instead of guessing.
type SeatConflictError struct {
	Err       error
	SeatCodes []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, strings.Join(e.SeatCodes, ", "))
}

func (e *SeatConflictError) Unwrap() error {
	return e.Err
}

func NewSeatConflictError(err error, seatCodes []string) *SeatConflictError {
	return &SeatConflictError{Err: err, SeatCodes: seatCodes}
}
