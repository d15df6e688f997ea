package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/seatwise/reservation-service/internal/app"
)

func main() {
	// Missing .env is fine, config falls back to flags and the environment.
	_ = godotenv.Load()

	err := app.Run()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("server exited", "error", err)
		os.Exit(1)
	}
}
