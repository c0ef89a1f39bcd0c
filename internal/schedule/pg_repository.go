package schedule

import (
	"context"
	"errors"
	"time"

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

func scanSlot(row pgx.Row) (*TimeSlot, error) {
	var s TimeSlot

	err := row.Scan(
		&s.ID,
		&s.StaffID,
		&s.Date,
		&s.StartMinutes,
		&s.EndMinutes,
		&s.IsBooked,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

func collectSlots(rows pgx.Rows) ([]TimeSlot, error) {
	defer rows.Close()

	var result []TimeSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetSlotByID(ctx context.Context, staffID, slotID uuid.UUID) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, staff_id, date, start_minutes, end_minutes, is_booked, created_at, updated_at
		FROM time_slots
		WHERE id = $1 AND staff_id = $2 AND deleted_at IS NULL
	`, slotID, staffID)
	return scanSlot(row)
}

func (r *PgRepository) ListByStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, staff_id, date, start_minutes, end_minutes, is_booked, created_at, updated_at
		FROM time_slots
		WHERE staff_id = $1 AND date = $2 AND deleted_at IS NULL
		ORDER BY start_minutes
	`, staffID, date)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

func (r *PgRepository) ListByStaffDateExcluding(ctx context.Context, staffID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, staff_id, date, start_minutes, end_minutes, is_booked, created_at, updated_at
		FROM time_slots
		WHERE staff_id = $1 AND date = $2 AND id <> $3 AND deleted_at IS NULL
		ORDER BY start_minutes
	`, staffID, date, excludeID)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

func (r *PgRepository) ListByStaffRange(ctx context.Context, staffID uuid.UUID, start, end time.Time) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, staff_id, date, start_minutes, end_minutes, is_booked, created_at, updated_at
		FROM time_slots
		WHERE staff_id = $1 AND date BETWEEN $2 AND $3 AND deleted_at IS NULL
		ORDER BY date, start_minutes
	`, staffID, start, end)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

func (r *PgRepository) InsertSlot(ctx context.Context, slot TimeSlot) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO time_slots (id, staff_id, date, start_minutes, end_minutes, is_booked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, staff_id, date, start_minutes, end_minutes, is_booked, created_at, updated_at
	`, slot.ID, slot.StaffID, slot.Date, slot.StartMinutes, slot.EndMinutes, slot.IsBooked)
	return scanSlot(row)
}

func (r *PgRepository) UpdateSlot(ctx context.Context, slot TimeSlot) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE time_slots
		SET date = $3,
		    start_minutes = $4,
		    end_minutes = $5,
		    is_booked = $6,
		    updated_at = now()
		WHERE id = $1 AND staff_id = $2 AND deleted_at IS NULL
		RETURNING id, staff_id, date, start_minutes, end_minutes, is_booked, created_at, updated_at
	`, slot.ID, slot.StaffID, slot.Date, slot.StartMinutes, slot.EndMinutes, slot.IsBooked)
	return scanSlot(row)
}

func (r *PgRepository) SoftDeleteSlot(ctx context.Context, staffID, slotID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE time_slots
		SET deleted_at = now(),
		    updated_at = now()
		WHERE id = $1 AND staff_id = $2 AND deleted_at IS NULL
	`, slotID, staffID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}
