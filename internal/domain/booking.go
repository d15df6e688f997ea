package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const BookingStatusConfirmed = "confirmed"

// Booking is the durable, append-only record of a finalized hold. Its ID is
// server-issued; the payment reference is the idempotency key for retried
// finalize calls.
type Booking struct {
	ID               uuid.UUID
	ShowingID        int
	HolderID         string
	SeatCodes        []string
	Amount           decimal.Decimal
	PaymentReference string
	Status           string
	CreatedAt        time.Time
}

type BookingRepository interface {
	// Create commits the booking and all of its seats in one transaction.
	// A seat already taken by another booking fails the whole insert with
	// a SeatConflictError wrapping ErrSeatAlreadyBooked; a reused payment
	// reference fails with ErrDuplicatePaymentReference.
	Create(ctx context.Context, booking *Booking) error

	GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetByPaymentReference(ctx context.Context, paymentReference string) (*Booking, error)

	// SeatsByShowing returns every seat code booked for the showing.
	SeatsByShowing(ctx context.Context, showingID int) ([]string, error)
}
