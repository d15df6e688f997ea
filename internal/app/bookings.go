package app

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/seatwise/reservation-service/api"
	"github.com/seatwise/reservation-service/internal/domain"
)

func (app *Application) FinalizeBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.FinalizeRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, created, err := app.reservations.Finalize(
		r.Context(),
		input.HoldId,
		input.HolderId,
		input.PaymentReference,
		input.Amount,
	)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	} else {
		logger.Info("finalize replayed for existing booking",
			"booking_id", booking.ID,
			"payment_reference", booking.PaymentReference,
		)
	}

	resp := api.BookingResponse{
		Booking: toApiBooking(booking),
	}

	err = app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid bookingID parameter"))
		return
	}

	booking, err := app.reservations.BookingByID(r.Context(), bookingID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.BookingResponse{
		Booking: toApiBooking(booking),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBooking(booking *domain.Booking) api.Booking {
	return api.Booking{
		BookingId:        booking.ID.String(),
		ShowingId:        booking.ShowingID,
		SeatCodes:        booking.SeatCodes,
		Amount:           booking.Amount,
		PaymentReference: booking.PaymentReference,
		Status:           booking.Status,
		CreatedAt:        booking.CreatedAt,
	}
}
