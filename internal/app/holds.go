package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/seatwise/reservation-service/api"
	"github.com/seatwise/reservation-service/internal/domain"
)

func (app *Application) CreateHoldHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showingID, err := app.readIDParam(r, "showingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateHoldRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	ttl := time.Duration(input.TtlSeconds) * time.Second

	hold, err := app.reservations.CreateHold(r.Context(), showingID, input.SeatCodes, input.HolderId, ttl)
	if err != nil {
		if _, ok := err.(*domain.SeatConflictError); ok {
			logger.Warn("hold creation lost a seat race", "showing_id", showingID)
		}

		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.HoldResponse{
		Hold: toApiHold(hold),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RenewHoldHandler(w http.ResponseWriter, r *http.Request) {
	holdID, err := readHoldIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.RenewHoldRequest

	// The body is optional, an absent or empty ttl renews for the default.
	if r.ContentLength != 0 {
		err = app.readJSON(w, r, &input)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		err = app.validator.Struct(input)
		if err != nil {
			app.failedValidationResponse(w, r, err)
			return
		}
	}

	ttl := time.Duration(input.TtlSeconds) * time.Second

	hold, err := app.reservations.RenewHold(r.Context(), holdID, ttl)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.RenewHoldResponse{
		HoldId:    hold.ID,
		ExpiresAt: hold.ExpiresAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request) {
	holdID, err := readHoldIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.reservations.ReleaseHold(r.Context(), holdID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func readHoldIDParam(r *http.Request) (string, error) {
	holdID := chi.URLParam(r, "holdID")

	if _, err := uuid.Parse(holdID); err != nil {
		return "", fmt.Errorf("invalid holdID parameter")
	}

	return holdID, nil
}

func toApiHold(hold *domain.Hold) api.Hold {
	return api.Hold{
		HoldId:     hold.ID,
		ShowingId:  hold.ShowingID,
		SeatCodes:  hold.SeatCodes,
		HolderId:   hold.HolderID,
		CreatedAt:  hold.CreatedAt,
		ExpiresAt:  hold.ExpiresAt,
		TtlSeconds: int(hold.ExpiresAt.Sub(hold.CreatedAt).Seconds()),
	}
}
