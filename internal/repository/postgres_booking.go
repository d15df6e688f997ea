package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seatwise/reservation-service/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create commits the booking row and its seats in one transaction. The
// booking_seats primary key (showing_id, seat_code) is what makes a seat
// unbookable twice: losing that race rolls the whole transaction back.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (id, showing_id, holder_id, amount, payment_reference, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.ID,
			booking.ShowingID,
			booking.HolderID,
			booking.Amount,
			booking.PaymentReference,
			booking.Status).Scan(&booking.CreatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.SeatCodes))
		for _, seatCode := range booking.SeatCodes {
			rows = append(rows, []any{
				booking.ID,
				booking.ShowingID,
				seatCode,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "showing_id", "seat_code"},
			pgx.CopyFromRows(rows),
		)

		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case "bookings_payment_reference_key":
				return domain.ErrDuplicatePaymentReference
			case "booking_seats_pkey":
				return domain.NewSeatConflictError(domain.ErrSeatAlreadyBooked, booking.SeatCodes)
			}
		}

		return err
	}

	return nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

func (p *PostgresBookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return p.getBooking(ctx, `WHERE b.id = $1`, bookingID)
}

func (p *PostgresBookingRepository) GetByPaymentReference(
	ctx context.Context,
	paymentReference string) (*domain.Booking, error) {

	return p.getBooking(ctx, `WHERE b.payment_reference = $1`, paymentReference)
}

func (p *PostgresBookingRepository) getBooking(
	ctx context.Context,
	where string,
	arg any) (*domain.Booking, error) {

	query := fmt.Sprintf(`
		SELECT
			b.id,
			b.showing_id,
			b.holder_id,
			b.amount,
			b.payment_reference,
			b.status,
			b.created_at,
			array_agg(bs.seat_code ORDER BY bs.seat_code)
		FROM bookings b
		JOIN booking_seats bs ON bs.booking_id = b.id
		%s
		GROUP BY b.id
	`, where)

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.ShowingID,
		&booking.HolderID,
		&booking.Amount,
		&booking.PaymentReference,
		&booking.Status,
		&booking.CreatedAt,
		&booking.SeatCodes,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) SeatsByShowing(ctx context.Context, showingID int) ([]string, error) {
	query := `
		SELECT seat_code
		FROM booking_seats
		WHERE showing_id = $1
	`

	rows, err := p.db.Query(ctx, query, showingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatCodes := make([]string, 0)

	for rows.Next() {
		var seatCode string

		err = rows.Scan(&seatCode)
		if err != nil {
			return nil, err
		}

		seatCodes = append(seatCodes, seatCode)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatCodes, nil
}
