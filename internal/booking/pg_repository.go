package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const bookingColumns = `
	id, staff_id, member_id, unit_id, company_id,
	start_date, end_date, repeat_type, notes, status,
	created_at, updated_at
`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking

	err := row.Scan(
		&b.ID,
		&b.StaffID,
		&b.MemberID,
		&b.UnitID,
		&b.CompanyID,
		&b.StartDate,
		&b.EndDate,
		&b.RepeatType,
		&b.Notes,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *PgRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM member_staff_bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func insertSlots(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, slots []BookingSlot) error {
	for _, sl := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO booking_slots (booking_id, date, hour, is_confirmed)
			VALUES ($1, $2, $3, $4)
		`, bookingID, sl.Date, sl.Hour, sl.IsConfirmed)
		if err != nil {
			return fmt.Errorf("insert booking slot: %w", err)
		}
	}
	return nil
}

func (r *PgRepository) CreateBookingWithSlots(ctx context.Context, b Booking, slots []BookingSlot) (*Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO member_staff_bookings (
			id, staff_id, member_id, unit_id, company_id,
			start_date, end_date, repeat_type, notes, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING `+bookingColumns+`
	`, b.ID, b.StaffID, b.MemberID, b.UnitID, b.CompanyID,
		b.StartDate, b.EndDate, b.RepeatType, b.Notes, b.Status)

	created, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := insertSlots(ctx, tx, created.ID, slots); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	return created, nil
}

func (r *PgRepository) RescheduleBooking(ctx context.Context, b Booking, slots []BookingSlot) (*Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM booking_slots WHERE booking_id = $1`, b.ID); err != nil {
		return nil, fmt.Errorf("delete booking slots: %w", err)
	}

	if err := insertSlots(ctx, tx, b.ID, slots); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE member_staff_bookings
		SET start_date = $2,
		    end_date = $3,
		    status = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+bookingColumns+`
	`, b.ID, b.StartDate, b.EndDate, b.Status)

	updated, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reschedule: %w", err)
	}

	return updated, nil
}

func (r *PgRepository) DeleteBookingWithSlots(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM booking_slots WHERE booking_id = $1`, id); err != nil {
		return fmt.Errorf("delete booking slots: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM member_staff_bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	return nil
}

func (r *PgRepository) ListSlotsByBooking(ctx context.Context, bookingID uuid.UUID) ([]BookingSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, booking_id, date, hour, is_confirmed
		FROM booking_slots
		WHERE booking_id = $1
		ORDER BY date, hour
	`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BookingSlot
	for rows.Next() {
		var sl BookingSlot
		if err := rows.Scan(&sl.ID, &sl.BookingID, &sl.Date, &sl.Hour, &sl.IsConfirmed); err != nil {
			return nil, err
		}
		result = append(result, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListRowsByMember(ctx context.Context, memberID uuid.UUID) ([]MemberBookingRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.staff_id, s.date, s.hour, b.status
		FROM member_staff_bookings b
		JOIN booking_slots s ON s.booking_id = b.id
		WHERE b.member_id = $1
		ORDER BY s.date, s.hour
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MemberBookingRow
	for rows.Next() {
		var row MemberBookingRow
		if err := rows.Scan(&row.BookingID, &row.StaffID, &row.Date, &row.Hour, &row.Status); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
