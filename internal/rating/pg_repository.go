package rating

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

func scanRating(row pgx.Row) (*Rating, error) {
	var r Rating

	err := row.Scan(
		&r.ID,
		&r.MemberID,
		&r.StaffID,
		&r.StaffType,
		&r.Rating,
		&r.Feedback,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	return &r, nil
}

func (r *PgRepository) InsertRating(ctx context.Context, rt Rating) (*Rating, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO staff_ratings (id, member_id, staff_id, staff_type, rating, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, member_id, staff_id, staff_type, rating, feedback, created_at
	`, rt.ID, rt.MemberID, rt.StaffID, rt.StaffType, rt.Rating, rt.Feedback)
	return scanRating(row)
}

func (r *PgRepository) FindRecentByAuthorAndStaff(ctx context.Context, memberID uuid.UUID, ref StaffRef, since time.Time) (*Rating, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, member_id, staff_id, staff_type, rating, feedback, created_at
		FROM staff_ratings
		WHERE member_id = $1 AND staff_id = $2 AND staff_type = $3 AND created_at >= $4
		ORDER BY created_at DESC
		LIMIT 1
	`, memberID, ref.ID, ref.Type, since)
	return scanRating(row)
}

func (r *PgRepository) AverageAndCount(ctx context.Context, ref StaffRef) (float64, int, error) {
	var avg *float64
	var count int

	err := r.pool.QueryRow(ctx, `
		SELECT AVG(rating), COUNT(*)
		FROM staff_ratings
		WHERE staff_id = $1 AND staff_type = $2
	`, ref.ID, ref.Type).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}

	if avg == nil {
		return 0, count, nil
	}
	return *avg, count, nil
}

func (r *PgRepository) Distribution(ctx context.Context, ref StaffRef) (map[int]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rating, COUNT(*)
		FROM staff_ratings
		WHERE staff_id = $1 AND staff_type = $2
		GROUP BY rating
	`, ref.ID, ref.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for rows.Next() {
		var star, count int
		if err := rows.Scan(&star, &count); err != nil {
			return nil, err
		}
		dist[star] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dist, nil
}

func (r *PgRepository) RecentReviews(ctx context.Context, ref StaffRef, limit int) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sr.rating, sr.feedback, COALESCE(m.name, 'Anonymous'), sr.created_at
		FROM staff_ratings sr
		LEFT JOIN members m ON m.id = sr.member_id
		WHERE sr.staff_id = $1 AND sr.staff_type = $2
		ORDER BY sr.created_at DESC
		LIMIT $3
	`, ref.ID, ref.Type, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.Rating, &rv.Feedback, &rv.MemberName, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

// AggregateByStaff groups ratings per (staff_id, staff_type). The min/max
// average filters apply to the aggregate, so they live in a HAVING clause
// rather than a post-fetch pass.
func (r *PgRepository) AggregateByStaff(ctx context.Context, f AggregateFilters) ([]AggregateRow, error) {
	query := `
		SELECT sr.staff_id, sr.staff_type,
		       AVG(sr.rating) AS average_rating,
		       COUNT(*) AS total_ratings,
		       s.name, s.designation, s.photo_url
		FROM staff_ratings sr
		JOIN staff s ON s.id = sr.staff_id AND s.staff_scope = sr.staff_type
		WHERE 1=1`
	args := []any{}

	if f.StaffType != nil {
		args = append(args, *f.StaffType)
		query += fmt.Sprintf(" AND sr.staff_type = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND s.name ILIKE $%d", len(args))
	}

	query += `
		GROUP BY sr.staff_id, sr.staff_type, s.name, s.designation, s.photo_url
		HAVING 1=1`

	if f.MinAvg != nil {
		args = append(args, *f.MinAvg)
		query += fmt.Sprintf(" AND AVG(sr.rating) >= $%d", len(args))
	}
	if f.MaxAvg != nil {
		args = append(args, *f.MaxAvg)
		query += fmt.Sprintf(" AND AVG(sr.rating) <= $%d", len(args))
	}

	query += " ORDER BY average_rating DESC"

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
		return nil, err
	}
	defer rows.Close()

	var result []AggregateRow
	for rows.Next() {
		var row AggregateRow
		if err := rows.Scan(&row.StaffID, &row.StaffType, &row.AverageRating,
			&row.TotalRatings, &row.StaffName, &row.Designation, &row.PhotoURL); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListRatings(ctx context.Context, f ListFilters) ([]RatingWithMember, int, error) {
	where := " WHERE 1=1"
	args := []any{}

	if f.StaffType != nil {
		args = append(args, *f.StaffType)
		where += fmt.Sprintf(" AND sr.staff_type = $%d", len(args))
	}
	if f.MinRating != nil {
		args = append(args, *f.MinRating)
		where += fmt.Sprintf(" AND sr.rating >= $%d", len(args))
	}
	if f.MaxRating != nil {
		args = append(args, *f.MaxRating)
		where += fmt.Sprintf(" AND sr.rating <= $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM staff_ratings sr"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT sr.id, sr.member_id, sr.staff_id, sr.staff_type, sr.rating, sr.feedback, sr.created_at,
		       COALESCE(m.name, 'Unknown')
		FROM staff_ratings sr
		LEFT JOIN members m ON m.id = sr.member_id` + where + `
		ORDER BY sr.created_at DESC`

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

	var result []RatingWithMember
	for rows.Next() {
		var row RatingWithMember
		if err := rows.Scan(&row.ID, &row.MemberID, &row.StaffID, &row.StaffType,
			&row.Rating.Rating, &row.Feedback, &row.CreatedAt, &row.MemberName); err != nil {
			return nil, 0, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PgRepository) MemberExists(ctx context.Context, memberID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)
	`, memberID).Scan(&exists)
	return exists, err
}

func (r *PgRepository) IsStaffAssignedToMember(ctx context.Context, memberID, staffID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM member_staff_assignments
			WHERE member_id = $1 AND staff_id = $2
		)
	`, memberID, staffID).Scan(&exists)
	return exists, err
}
