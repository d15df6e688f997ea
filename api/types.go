// Package api defines the request and response bodies of the reservation
// service's HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// SeatConflictResponse is returned when a hold or finalize attempt loses a
// seat race. SeatCodes lists the seats the caller needs to re-select.
type SeatConflictResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SeatCodes []string  `json:"seatCodes"`
}

type CreateHoldRequest struct {
	SeatCodes  []string `json:"seatCodes" validate:"required,min=1,max=8,unique,dive,seat_code"`
	HolderId   string   `json:"holderId" validate:"required,min=1,max=128"`
	TtlSeconds int      `json:"ttlSeconds" validate:"omitempty,min=30,max=1800"`
}

type RenewHoldRequest struct {
	TtlSeconds int `json:"ttlSeconds" validate:"omitempty,min=30,max=1800"`
}

type Hold struct {
	HoldId     string    `json:"holdId"`
	ShowingId  int       `json:"showingId"`
	SeatCodes  []string  `json:"seatCodes"`
	HolderId   string    `json:"holderId"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	TtlSeconds int       `json:"ttlSeconds"`
}

type HoldResponse struct {
	Hold Hold `json:"hold"`
}

type RenewHoldResponse struct {
	HoldId    string    `json:"holdId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type FinalizeRequest struct {
	HoldId           string          `json:"holdId" validate:"required,uuid4"`
	HolderId         string          `json:"holderId" validate:"required,min=1,max=128"`
	PaymentReference string          `json:"paymentReference" validate:"required,min=1,max=255"`
	Amount           decimal.Decimal `json:"amount" validate:"required"`
}

type Booking struct {
	BookingId        string          `json:"bookingId"`
	ShowingId        int             `json:"showingId"`
	SeatCodes        []string        `json:"seatCodes"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentReference string          `json:"paymentReference"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type Seat struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowingId int       `json:"showingId"`
	MovieId   int       `json:"movieId"`
	TheaterId int       `json:"theaterId"`
	StartsAt  time.Time `json:"startsAt"`
	SeatRows  []SeatRow `json:"seatRows"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
