package app

import (
	"net/http"

	"github.com/seatwise/reservation-service/api"
	"github.com/seatwise/reservation-service/internal/domain"
	"github.com/seatwise/reservation-service/internal/reservation"
)

func (app *Application) GetSeatMapHandler(w http.ResponseWriter, r *http.Request) {
	showingID, err := app.readIDParam(r, "showingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatMap, err := app.reservations.SeatMap(r.Context(), showingID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(seatMap *reservation.SeatMap) api.SeatMapResponse {
	showing := seatMap.Showing
	rows := make([]api.SeatRow, 0, showing.SeatRows)

	for row := 0; row < showing.SeatRows; row++ {
		seats := make([]api.Seat, 0, showing.SeatsPerRow)

		for col := 1; col <= showing.SeatsPerRow; col++ {
			code := domain.SeatCodeAt(row, col)

			state, ok := seatMap.States[code]
			if !ok {
				state = domain.SeatFree
			}

			seats = append(seats, api.Seat{
				Code:  code,
				State: string(state),
			})
		}

		rows = append(rows, api.SeatRow{
			Row:   domain.RowLabel(row),
			Seats: seats,
		})
	}

	return api.SeatMapResponse{
		ShowingId: showing.ID,
		MovieId:   showing.MovieID,
		TheaterId: showing.TheaterID,
		StartsAt:  showing.StartsAt,
		SeatRows:  rows,
	}
}
