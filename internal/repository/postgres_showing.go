package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seatwise/reservation-service/internal/domain"
)

type PostgresShowingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowingRepository(db *pgxpool.Pool) *PostgresShowingRepository {
	return &PostgresShowingRepository{
		db: db,
	}
}

func (p *PostgresShowingRepository) GetByID(ctx context.Context, showingID int) (*domain.Showing, error) {
	query := `
		SELECT id, movie_id, theater_id, starts_at, seat_rows, seats_per_row, created_at
		FROM showings
		WHERE id = $1
	`

	var showing domain.Showing

	err := p.db.QueryRow(ctx, query, showingID).Scan(
		&showing.ID,
		&showing.MovieID,
		&showing.TheaterID,
		&showing.StartsAt,
		&showing.SeatRows,
		&showing.SeatsPerRow,
		&showing.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowingNotFound
		}

		return nil, err
	}

	return &showing, nil
}

// Create registers showing reference data. The catalog collaborator owns this
// table; the service itself only calls this from seeding and tests.
func (p *PostgresShowingRepository) Create(ctx context.Context, showing *domain.Showing) error {
	query := `
		INSERT INTO showings (movie_id, theater_id, starts_at, seat_rows, seats_per_row)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		showing.MovieID,
		showing.TheaterID,
		showing.StartsAt,
		showing.SeatRows,
		showing.SeatsPerRow).Scan(&showing.ID, &showing.CreatedAt)
}
