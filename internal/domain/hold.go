package domain

import (
	"context"
	"time"
)

// Hold is a time-bounded exclusive claim on a set of seats for one showing.
// A seat code belongs to at most one active hold per showing at any instant.
type Hold struct {
	ID        string    `json:"id"`
	ShowingID int       `json:"showingId"`
	SeatCodes []string  `json:"seatCodes"`
	HolderID  string    `json:"holderId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Active reports whether the hold is still valid at the given instant. Expiry
// is a property of the record itself, never of whether a sweep has run.
func (h Hold) Active(now time.Time) bool {
	return now.Before(h.ExpiresAt)
}

type HoldRepository interface {
	// Create atomically claims every seat in the hold or none of them. On
	// contention it returns a SeatConflictError wrapping ErrSeatAlreadyHeld
	// listing the seats that were already claimed by another holder.
	Create(ctx context.Context, hold Hold) error

	Get(ctx context.Context, holdID string) (*Hold, error)

	// GetLive returns the hold only if every one of its seat claims still
	// belongs to it. A hold whose seats have been reclaimed by a newer hold
	// fails with ErrHoldExpired even when its record has not lapsed yet.
	GetLive(ctx context.Context, holdID string) (*Hold, error)

	// Renew extends the hold and all of its seat claims to the new expiry.
	// Renewing a hold that no longer claims all of its seats fails with
	// ErrHoldExpired.
	Renew(ctx context.Context, holdID string, expiresAt time.Time) (*Hold, error)

	// Remove releases the hold and its seat claims. Removing an absent hold
	// is not an error.
	Remove(ctx context.Context, holdID string) error

	// HeldSeats returns the seat codes with a live claim for the showing,
	// pruning any stale index entries it encounters.
	HeldSeats(ctx context.Context, showingID int) ([]string, error)

	// HoldForSeat returns the active hold claiming the seat, or
	// ErrHoldNotFound when the seat is free.
	HoldForSeat(ctx context.Context, showingID int, seatCode string) (*Hold, error)

	// ReapExpired sweeps the seat indexes of every showing that may have live
	// claims and returns the number of stale entries removed.
	ReapExpired(ctx context.Context) (int, error)
}
