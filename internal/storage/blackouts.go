package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
)

// DateLayout is how disabled dates are stored; it sorts chronologically.
const DateLayout = "2006-01-02"

var ErrNotFound = errors.New("disabled date not found")

// DisabledDate is a single blacked-out calendar day.
type DisabledDate struct {
	ID        string
	Date      string // YYYY-MM-DD
	Reason    string
	CreatedAt time.Time
}

// Time returns the date at midnight in loc.
func (d DisabledDate) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, d.Date, loc)
}

// BlackoutRepository stores disabled dates.
type BlackoutRepository struct {
	db *Database
}

func NewBlackoutRepository(db *Database) *BlackoutRepository {
	return &BlackoutRepository{db: db}
}

// Add disables the calendar day of date. The time of day is dropped.
func (r *BlackoutRepository) Add(ctx context.Context, date time.Time, reason string) (*DisabledDate, error) {
	d := &DisabledDate{
		ID:        xid.New().String(),
		Date:      date.Format(DateLayout),
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	_, err := r.db.DB().ExecContext(ctx,
		`INSERT INTO disabled_dates (id, date, reason, created_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Date, d.Reason, d.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert disabled date: %w", err)
	}
	return d, nil
}

// Remove deletes a disabled date by ID.
func (r *BlackoutRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.DB().ExecContext(ctx, `DELETE FROM disabled_dates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete disabled date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns every disabled date ordered by date.
func (r *BlackoutRepository) List(ctx context.Context) ([]DisabledDate, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT id, date, reason, created_at FROM disabled_dates ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query disabled dates: %w", err)
	}
	return scanDisabledDates(rows)
}

// Between returns the disabled dates in [from, to], compared by day.
func (r *BlackoutRepository) Between(ctx context.Context, from, to time.Time) ([]DisabledDate, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT id, date, reason, created_at FROM disabled_dates
		 WHERE date >= ? AND date <= ? ORDER BY date, created_at`,
		from.Format(DateLayout), to.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query disabled dates: %w", err)
	}
	return scanDisabledDates(rows)
}

func scanDisabledDates(rows *sql.Rows) ([]DisabledDate, error) {
	defer rows.Close()

	var dates []DisabledDate
	for rows.Next() {
		var (
			d       DisabledDate
			created int64
		)
		if err := rows.Scan(&d.ID, &d.Date, &d.Reason, &created); err != nil {
			return nil, fmt.Errorf("failed to scan disabled date: %w", err)
		}
		d.CreatedAt = time.Unix(created, 0)
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate disabled dates: %w", err)
	}
	return dates, nil
}
