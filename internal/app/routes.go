package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.notFoundResponse(w, r)
	})

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("seat-reservation-api", otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)
	r.Use(app.logRequest)

	r.Get("/health", app.HealthcheckHandler)

	r.Route("/showings/{showingID}", func(r chi.Router) {
		r.Get("/seat-map", app.GetSeatMapHandler)
		r.Post("/holds", app.CreateHoldHandler)
	})

	r.Route("/holds/{holdID}", func(r chi.Router) {
		r.Patch("/", app.RenewHoldHandler)
		r.Delete("/", app.ReleaseHoldHandler)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", app.FinalizeBookingHandler)
		r.Get("/{bookingID}", app.GetBookingHandler)
	})

	return r
}
