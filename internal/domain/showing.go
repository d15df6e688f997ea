package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Showing is reference data owned by the catalog; this service only reads it to
// validate seat selections and render seat maps.
type Showing struct {
	ID          int
	MovieID     int
	TheaterID   int
	StartsAt    time.Time
	SeatRows    int
	SeatsPerRow int
	CreatedAt   time.Time
}

// HasSeat reports whether the seat code falls inside the showing's layout.
func (s Showing) HasSeat(code string) bool {
	row, col, err := ParseSeatCode(code)
	if err != nil {
		return false
	}

	return row < s.SeatRows && col <= s.SeatsPerRow
}

// RowLabel returns the letter label of a zero-based row index.
func RowLabel(row int) string {
	return string(rune('A' + row))
}

// SeatCodeAt builds a seat code from a zero-based row and a one-based column,
// e.g. (0, 1) -> "A1".
func SeatCodeAt(row, col int) string {
	return RowLabel(row) + strconv.Itoa(col)
}

// ParseSeatCode splits a code like "B7" into its zero-based row and one-based
// column. Codes are a single uppercase row letter followed by the seat number.
func ParseSeatCode(code string) (int, int, error) {
	if len(code) < 2 || len(code) > 3 {
		return 0, 0, fmt.Errorf("%w: malformed seat code %q", ErrInvalidSeatSelection, code)
	}

	row := code[0]
	if row < 'A' || row > 'Z' {
		return 0, 0, fmt.Errorf("%w: malformed seat code %q", ErrInvalidSeatSelection, code)
	}

	col, err := strconv.Atoi(code[1:])
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("%w: malformed seat code %q", ErrInvalidSeatSelection, code)
	}

	return int(row - 'A'), col, nil
}

type ShowingRepository interface {
	GetByID(ctx context.Context, showingID int) (*Showing, error)
	Create(ctx context.Context, showing *Showing) error
}
