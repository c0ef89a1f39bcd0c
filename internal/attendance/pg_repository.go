package attendance

import (
	"context"
	"errors"
	"fmt"
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

func (r *PgRepository) UpsertAttendance(ctx context.Context, a Attendance) (*AttendanceWithStaff, error) {
	row := r.pool.QueryRow(ctx, `
		WITH saved AS (
			INSERT INTO member_staff_attendance
				(member_id, staff_id, unit_id, date, status, note, photo_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (member_id, staff_id, unit_id, date)
			DO UPDATE SET status = EXCLUDED.status,
			              note = EXCLUDED.note,
			              photo_url = EXCLUDED.photo_url,
			              updated_at = now()
			RETURNING id, member_id, staff_id, unit_id, date, status, note, photo_url, created_at, updated_at
		)
		SELECT saved.id, saved.member_id, saved.staff_id, saved.unit_id, saved.date,
		       saved.status, saved.note, saved.photo_url, saved.created_at, saved.updated_at,
		       COALESCE(s.name, 'Unknown'), s.designation, s.photo_url
		FROM saved
		LEFT JOIN staff s ON s.id = saved.staff_id
	`, a.MemberID, a.StaffID, a.UnitID, a.Date, a.Status, a.Note, a.PhotoURL)

	var out AttendanceWithStaff
	err := row.Scan(
		&out.ID, &out.MemberID, &out.StaffID, &out.UnitID, &out.Date,
		&out.Status, &out.Note, &out.PhotoURL, &out.CreatedAt, &out.UpdatedAt,
		&out.StaffName, &out.StaffDesignation, &out.StaffPhotoURL,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) ListByDate(ctx context.Context, f AdminFilters) ([]AttendanceWithStaff, int, error) {
	from := `
		FROM member_staff_attendance a
		LEFT JOIN staff s ON s.id = a.staff_id`

	where := ` WHERE a.date = $1`
	args := []any{f.Date}

	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(" AND s.name ILIKE $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT a.id, a.member_id, a.staff_id, a.unit_id, a.date,
		       a.status, a.note, a.photo_url, a.created_at, a.updated_at,
		       COALESCE(s.name, 'Unknown'), s.designation, s.photo_url` +
		from + where + `
		ORDER BY s.name`

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		offset := 0
		if f.Page > 1 {
			offset = (f.Page - 1) * f.Limit
		}
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []AttendanceWithStaff
	for rows.Next() {
		var a AttendanceWithStaff
		if err := rows.Scan(
			&a.ID, &a.MemberID, &a.StaffID, &a.UnitID, &a.Date,
			&a.Status, &a.Note, &a.PhotoURL, &a.CreatedAt, &a.UpdatedAt,
			&a.StaffName, &a.StaffDesignation, &a.StaffPhotoURL,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PgRepository) SummarizeDate(ctx context.Context, date time.Time) (DaySummary, error) {
	var s DaySummary
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE a.status = 'present'),
		       COUNT(*) FILTER (WHERE a.status = 'absent'),
		       (SELECT COUNT(*) FROM staff WHERE deleted_at IS NULL)
		FROM member_staff_attendance a
		WHERE a.date = $1
	`, date).Scan(&s.Present, &s.Absent, &s.TotalStaff)
	if err != nil {
		return DaySummary{}, fmt.Errorf("summarize attendance: %w", err)
	}
	return s, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id int64, status Status, note *string) (*AttendanceWithStaff, error) {
	row := r.pool.QueryRow(ctx, `
		WITH saved AS (
			UPDATE member_staff_attendance
			SET status = $2,
			    note = COALESCE($3, note),
			    updated_at = now()
			WHERE id = $1
			RETURNING id, member_id, staff_id, unit_id, date, status, note, photo_url, created_at, updated_at
		)
		SELECT saved.id, saved.member_id, saved.staff_id, saved.unit_id, saved.date,
		       saved.status, saved.note, saved.photo_url, saved.created_at, saved.updated_at,
		       COALESCE(s.name, 'Unknown'), s.designation, s.photo_url
		FROM saved
		LEFT JOIN staff s ON s.id = saved.staff_id
	`, id, status, note)

	var out AttendanceWithStaff
	err := row.Scan(
		&out.ID, &out.MemberID, &out.StaffID, &out.UnitID, &out.Date,
		&out.Status, &out.Note, &out.PhotoURL, &out.CreatedAt, &out.UpdatedAt,
		&out.StaffName, &out.StaffDesignation, &out.StaffPhotoURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAttendanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update attendance: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) ListByMemberMonth(ctx context.Context, memberID uuid.UUID, year, month int) ([]AttendanceWithStaff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.member_id, a.staff_id, a.unit_id, a.date,
		       a.status, a.note, a.photo_url, a.created_at, a.updated_at,
		       COALESCE(s.name, 'Unknown'), s.designation, s.photo_url
		FROM member_staff_attendance a
		LEFT JOIN staff s ON s.id = a.staff_id
		WHERE a.member_id = $1
		  AND EXTRACT(YEAR FROM a.date) = $2
		  AND EXTRACT(MONTH FROM a.date) = $3
		ORDER BY a.date, s.name
	`, memberID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AttendanceWithStaff
	for rows.Next() {
		var a AttendanceWithStaff
		if err := rows.Scan(
			&a.ID, &a.MemberID, &a.StaffID, &a.UnitID, &a.Date,
			&a.Status, &a.Note, &a.PhotoURL, &a.CreatedAt, &a.UpdatedAt,
			&a.StaffName, &a.StaffDesignation, &a.StaffPhotoURL,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
