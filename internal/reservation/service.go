// Package reservation implements the concurrency-safe core of the booking
// flow: seat-state reads, time-bounded holds, and the atomic promotion of a
// paid hold into a booking. Transports call it through the API interface.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/seatwise/reservation-service/internal/domain"
	"github.com/seatwise/reservation-service/internal/events"
	"github.com/shopspring/decimal"
)

const (
	DefaultHoldTTL  = 5 * time.Minute
	MaxSeatsPerHold = 8
)

// SeatMap is the display view of one showing: every seat in the layout mapped
// to its current state, with lazy expiry already applied.
type SeatMap struct {
	Showing domain.Showing
	States  map[string]domain.SeatState
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event events.BookingConfirmedEvent) error
}

// API is the narrow surface external booking-flow collaborators call into.
type API interface {
	SeatMap(ctx context.Context, showingID int) (*SeatMap, error)
	CreateHold(ctx context.Context, showingID int, seatCodes []string, holderID string, ttl time.Duration) (*domain.Hold, error)
	RenewHold(ctx context.Context, holdID string, ttl time.Duration) (*domain.Hold, error)
	ReleaseHold(ctx context.Context, holdID string) error
	Finalize(ctx context.Context, holdID, holderID, paymentReference string, amount decimal.Decimal) (*domain.Booking, bool, error)
	BookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
}

type Service struct {
	logger   *slog.Logger
	showings domain.ShowingRepository
	holds    domain.HoldRepository
	bookings domain.BookingRepository
	events   EventPublisher

	now func() time.Time
}

func NewService(
	logger *slog.Logger,
	showings domain.ShowingRepository,
	holds domain.HoldRepository,
	bookings domain.BookingRepository,
	publisher EventPublisher) *Service {

	return &Service{
		logger:   logger,
		showings: showings,
		holds:    holds,
		bookings: bookings,
		events:   publisher,
		now:      time.Now,
	}
}

// CreateHold claims the requested seats for the holder, all-or-nothing. Seats
// already booked fail with ErrSeatAlreadyBooked, seats actively held by a
// different holder with ErrSeatAlreadyHeld; both carry the offending seat
// codes. Re-selecting seats the holder already holds issues a fresh hold that
// takes the claims over.
func (s *Service) CreateHold(
	ctx context.Context,
	showingID int,
	seatCodes []string,
	holderID string,
	ttl time.Duration) (*domain.Hold, error) {

	showing, err := s.showings.GetByID(ctx, showingID)
	if err != nil {
		return nil, err
	}

	seatCodes, err = normalizeSeatSelection(*showing, seatCodes)
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}

	bookedSeats, err := s.bookings.SeatsByShowing(ctx, showingID)
	if err != nil {
		return nil, err
	}

	if conflicts := intersect(seatCodes, bookedSeats); len(conflicts) > 0 {
		return nil, domain.NewSeatConflictError(domain.ErrSeatAlreadyBooked, conflicts)
	}

	now := s.now()
	hold := domain.Hold{
		ID:        uuid.New().String(),
		ShowingID: showingID,
		SeatCodes: seatCodes,
		HolderID:  holderID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	err = s.holds.Create(ctx, hold)
	if err != nil {
		return nil, err
	}

	s.logger.Info("hold created",
		"hold_id", hold.ID,
		"showing_id", showingID,
		"seats", len(seatCodes),
		"expires_at", hold.ExpiresAt,
	)

	return &hold, nil
}

// RenewHold extends an active hold. Expired holds cannot be renewed; the
// caller has to go back through CreateHold and its conflict checks.
func (s *Service) RenewHold(ctx context.Context, holdID string, ttl time.Duration) (*domain.Hold, error) {
	hold, err := s.holds.Get(ctx, holdID)
	if err != nil {
		return nil, err
	}

	if !hold.Active(s.now()) {
		return nil, domain.ErrHoldExpired
	}

	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}

	return s.holds.Renew(ctx, holdID, s.now().Add(ttl))
}

// ReleaseHold frees the hold's seats. Releasing an absent or already expired
// hold is not an error.
func (s *Service) ReleaseHold(ctx context.Context, holdID string) error {
	return s.holds.Remove(ctx, holdID)
}

// SeatMap reports every seat of the showing as free, held or booked. Held
// state comes from live claims only; a booked seat stays booked even if a
// stale claim still lingers for it.
func (s *Service) SeatMap(ctx context.Context, showingID int) (*SeatMap, error) {
	showing, err := s.showings.GetByID(ctx, showingID)
	if err != nil {
		return nil, err
	}

	bookedSeats, err := s.bookings.SeatsByShowing(ctx, showingID)
	if err != nil {
		return nil, err
	}

	heldSeats, err := s.holds.HeldSeats(ctx, showingID)
	if err != nil {
		return nil, err
	}

	states := make(map[string]domain.SeatState, showing.SeatRows*showing.SeatsPerRow)

	for row := 0; row < showing.SeatRows; row++ {
		for col := 1; col <= showing.SeatsPerRow; col++ {
			states[domain.SeatCodeAt(row, col)] = domain.SeatFree
		}
	}

	for _, seatCode := range heldSeats {
		if _, ok := states[seatCode]; ok {
			states[seatCode] = domain.SeatHeld
		}
	}

	for _, seatCode := range bookedSeats {
		if _, ok := states[seatCode]; ok {
			states[seatCode] = domain.SeatBooked
		}
	}

	return &SeatMap{Showing: *showing, States: states}, nil
}

func (s *Service) BookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func normalizeSeatSelection(showing domain.Showing, seatCodes []string) ([]string, error) {
	if len(seatCodes) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", domain.ErrInvalidSeatSelection)
	}

	if len(seatCodes) > MaxSeatsPerHold {
		return nil, fmt.Errorf("%w: at most %d seats per hold", domain.ErrInvalidSeatSelection, MaxSeatsPerHold)
	}

	seen := make(map[string]bool, len(seatCodes))
	normalized := make([]string, 0, len(seatCodes))

	for _, seatCode := range seatCodes {
		if _, _, err := domain.ParseSeatCode(seatCode); err != nil {
			return nil, err
		}

		if !showing.HasSeat(seatCode) {
			return nil, fmt.Errorf("%w: seat %s is outside the layout", domain.ErrInvalidSeatSelection, seatCode)
		}

		if seen[seatCode] {
			continue
		}

		seen[seatCode] = true
		normalized = append(normalized, seatCode)
	}

	// Fixed ordering keeps multi-seat claims deterministic under contention.
	sort.Strings(normalized)

	return normalized, nil
}

func intersect(want, taken []string) []string {
	takenSet := make(map[string]bool, len(taken))
	for _, seatCode := range taken {
		takenSet[seatCode] = true
	}

	var conflicts []string

	for _, seatCode := range want {
		if takenSet[seatCode] {
			conflicts = append(conflicts, seatCode)
		}
	}

	return conflicts
}

// Finalize converts a paid hold into a durable booking. The returned bool is
// true when the booking was created by this call and false on an idempotent
// replay of an already finalized payment reference.
func (s *Service) Finalize(
	ctx context.Context,
	holdID string,
	holderID string,
	paymentReference string,
	amount decimal.Decimal) (*domain.Booking, bool, error) {

	// Replay check comes first: after a successful finalize the hold is gone,
	// and a retry must still get its booking back instead of HoldNotFound.
	existing, err := s.bookings.GetByPaymentReference(ctx, paymentReference)
	if err == nil {
		if existing.HolderID != holderID {
			return nil, false, domain.ErrNotOwner
		}

		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, false, err
	}

	// GetLive refuses holds whose seat claims were since taken over, so a
	// superseded hold can never book seats out from under the current one.
	hold, err := s.holds.GetLive(ctx, holdID)
	if err != nil {
		return nil, false, err
	}

	if hold.HolderID != holderID {
		return nil, false, domain.ErrNotOwner
	}

	if !hold.Active(s.now()) {
		return nil, false, domain.ErrHoldExpired
	}

	booking := &domain.Booking{
		ID:               uuid.New(),
		ShowingID:        hold.ShowingID,
		HolderID:         holderID,
		SeatCodes:        hold.SeatCodes,
		Amount:           amount,
		PaymentReference: paymentReference,
		Status:           domain.BookingStatusConfirmed,
	}

	err = s.bookings.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePaymentReference) {
			// Lost a replay race; the stored booking is the answer.
			existing, err := s.bookings.GetByPaymentReference(ctx, paymentReference)
			if err != nil {
				return nil, false, err
			}

			if existing.HolderID != holderID {
				return nil, false, domain.ErrNotOwner
			}

			return existing, false, nil
		}

		// On a seat conflict the hold stays intact for the caller to inspect.
		return nil, false, err
	}

	err = s.holds.Remove(ctx, holdID)
	if err != nil {
		s.logger.Warn("failed to remove finalized hold, expiry will reclaim it",
			"hold_id", holdID, "error", err)
	}

	err = s.events.PublishBookingConfirmed(ctx, events.BookingConfirmedEvent{
		BookingID:        booking.ID.String(),
		ShowingID:        booking.ShowingID,
		HolderID:         booking.HolderID,
		SeatCodes:        booking.SeatCodes,
		Amount:           booking.Amount.String(),
		PaymentReference: booking.PaymentReference,
		ConfirmedAt:      booking.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("failed to publish booking confirmation", "booking_id", booking.ID, "error", err)
	}

	s.logger.Info("booking finalized",
		"booking_id", booking.ID,
		"showing_id", booking.ShowingID,
		"seats", len(booking.SeatCodes),
	)

	return booking, true, nil
}
