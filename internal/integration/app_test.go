package integration_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/seatwise/reservation-service/internal/app"
	"github.com/seatwise/reservation-service/internal/repository"
)

// TestApp bundles the application under test with direct handles on its
// stores, used to seed reference data and to manipulate holds out of band.
type TestApp struct {
	App      *app.Application
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Showings *repository.PostgresShowingRepository
	Holds    *repository.RedisHoldStore
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		application.Close()
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.URL})

	return &TestApp{
		App:      application,
		DB:       db,
		Redis:    redisClient,
		Showings: repository.NewPostgresShowingRepository(db),
		Holds:    repository.NewRedisHoldStore(redisClient),
	}, nil
}

func (a *TestApp) Close() {
	a.Redis.Close()
	a.DB.Close()
	a.App.Close()
}
