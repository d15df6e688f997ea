package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/seatwise/reservation-service/api"
	"github.com/seatwise/reservation-service/internal/domain"
	"github.com/seatwise/reservation-service/internal/reservation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SeatsTestSuite struct {
	suite.Suite
	app          *Application
	reservations *MockReservationAPI
}

func (s *SeatsTestSuite) SetupTest() {
	s.reservations = new(MockReservationAPI)

	s.app = newTestApplication(func(a *Application) {
		a.reservations = s.reservations
	})
}

func TestSeatsSuite(t *testing.T) {
	suite.Run(t, new(SeatsTestSuite))
}

func (s *SeatsTestSuite) TestGetSeatMap() {
	startsAt := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

	showing := domain.Showing{
		ID:          1,
		MovieID:     7,
		TheaterID:   3,
		StartsAt:    startsAt,
		SeatRows:    2,
		SeatsPerRow: 2,
	}

	tests := []struct {
		name           string
		showingID      string
		setupMocks     func()
		wantStatus     int
		wantResponse   *api.SeatMapResponse
		wantErrMessage string
	}{
		{
			name:       "should fail when showing ID is not a positive integer",
			showingID:  "-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:      "should fail when showing does not exist",
			showingID: "999",
			setupMocks: func() {
				s.reservations.On("SeatMap", mock.Anything, 999).
					Return(nil, domain.ErrShowingNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:      "should fail when the service errors",
			showingID: "1",
			setupMocks: func() {
				s.reservations.On("SeatMap", mock.Anything, 1).
					Return(nil, fmt.Errorf("redis error"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name:      "should return the full grid with held and booked seats marked",
			showingID: "1",
			setupMocks: func() {
				s.reservations.On("SeatMap", mock.Anything, 1).
					Return(&reservation.SeatMap{
						Showing: showing,
						States: map[string]domain.SeatState{
							"A2": domain.SeatHeld,
							"B1": domain.SeatBooked,
						},
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.SeatMapResponse{
				ShowingId: 1,
				MovieId:   7,
				TheaterId: 3,
				StartsAt:  startsAt,
				SeatRows: []api.SeatRow{
					{
						Row: "A",
						Seats: []api.Seat{
							{Code: "A1", State: "free"},
							{Code: "A2", State: "held"},
						},
					},
					{
						Row: "B",
						Seats: []api.Seat{
							{Code: "B1", State: "booked"},
							{Code: "B2", State: "free"},
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.reservations.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			url := fmt.Sprintf("/showings/%s/seat-map", tt.showingID)
			w := executeRequest(s.T(), s.app, http.MethodGet, url, nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.SeatMapResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}
