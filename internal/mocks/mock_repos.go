package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/seatwise/reservation-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowingRepo struct {
	mock.Mock
	domain.ShowingRepository
}

func (m *MockShowingRepo) GetByID(ctx context.Context, showingID int) (*domain.Showing, error) {
	args := m.Called(ctx, showingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Showing), args.Error(1)
}

func (m *MockShowingRepo) Create(ctx context.Context, showing *domain.Showing) error {
	args := m.Called(ctx, showing)
	return args.Error(0)
}

type MockHoldRepo struct {
	mock.Mock
	domain.HoldRepository
}

func (m *MockHoldRepo) Create(ctx context.Context, hold domain.Hold) error {
	args := m.Called(ctx, hold)
	return args.Error(0)
}

func (m *MockHoldRepo) Get(ctx context.Context, holdID string) (*domain.Hold, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldRepo) GetLive(ctx context.Context, holdID string) (*domain.Hold, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldRepo) Renew(ctx context.Context, holdID string, expiresAt time.Time) (*domain.Hold, error) {
	args := m.Called(ctx, holdID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldRepo) Remove(ctx context.Context, holdID string) error {
	args := m.Called(ctx, holdID)
	return args.Error(0)
}

func (m *MockHoldRepo) HeldSeats(ctx context.Context, showingID int) ([]string, error) {
	args := m.Called(ctx, showingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockHoldRepo) HoldForSeat(ctx context.Context, showingID int, seatCode string) (*domain.Hold, error) {
	args := m.Called(ctx, showingID, seatCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldRepo) ReapExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByPaymentReference(ctx context.Context, paymentReference string) (*domain.Booking, error) {
	args := m.Called(ctx, paymentReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) SeatsByShowing(ctx context.Context, showingID int) ([]string, error) {
	args := m.Called(ctx, showingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
