// Package events defines the messages published to the broker and the
// RabbitMQ publisher that delivers them.
package events

// BookingConfirmedEvent is published after a hold is finalized into a
// booking. It carries enough for downstream consumers (notifications,
// analytics) to act without querying the primary stores.
type BookingConfirmedEvent struct {
	BookingID        string   `json:"booking_id"`
	ShowingID        int      `json:"showing_id"`
	HolderID         string   `json:"holder_id"`
	SeatCodes        []string `json:"seats"`
	Amount           string   `json:"amount"`
	PaymentReference string   `json:"payment_reference"`
	ConfirmedAt      string   `json:"confirmed_at"`
}

const BookingConfirmedQueue = "booking.confirmed"
