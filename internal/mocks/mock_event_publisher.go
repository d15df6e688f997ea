package mocks

import (
	"context"

	"github.com/seatwise/reservation-service/internal/events"
	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBookingConfirmed(ctx context.Context, event events.BookingConfirmedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
