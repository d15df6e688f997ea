package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/seatwise/reservation-service/internal/domain"
	"github.com/seatwise/reservation-service/internal/reservation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockReservationAPI struct {
	mock.Mock
	reservation.API
}

func (m *MockReservationAPI) SeatMap(ctx context.Context, showingID int) (*reservation.SeatMap, error) {
	args := m.Called(ctx, showingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.SeatMap), args.Error(1)
}

func (m *MockReservationAPI) CreateHold(
	ctx context.Context,
	showingID int,
	seatCodes []string,
	holderID string,
	ttl time.Duration) (*domain.Hold, error) {

	args := m.Called(ctx, showingID, seatCodes, holderID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockReservationAPI) RenewHold(ctx context.Context, holdID string, ttl time.Duration) (*domain.Hold, error) {
	args := m.Called(ctx, holdID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockReservationAPI) ReleaseHold(ctx context.Context, holdID string) error {
	args := m.Called(ctx, holdID)
	return args.Error(0)
}

func (m *MockReservationAPI) Finalize(
	ctx context.Context,
	holdID string,
	holderID string,
	paymentReference string,
	amount decimal.Decimal) (*domain.Booking, bool, error) {

	args := m.Called(ctx, holdID, holderID, paymentReference, amount)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Bool(1), args.Error(2)
}

func (m *MockReservationAPI) BookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
