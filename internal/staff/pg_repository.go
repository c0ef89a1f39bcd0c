package staff

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

const staffColumns = `
	id, name, mobile, email, staff_scope, department, designation,
	society_id, unit_id, company_id, is_verified,
	aadhaar_number, residential_address, next_of_kin_name, next_of_kin_mobile,
	photo_url, verified_at, verified_by_member_id,
	created_by, updated_by, created_at, updated_at
`

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Mobile,
		&s.Email,
		&s.Scope,
		&s.Department,
		&s.Designation,
		&s.SocietyID,
		&s.UnitID,
		&s.CompanyID,
		&s.IsVerified,
		&s.AadhaarNumber,
		&s.ResidentialAddress,
		&s.NextOfKinName,
		&s.NextOfKinMobile,
		&s.PhotoURL,
		&s.VerifiedAt,
		&s.VerifiedByMemberID,
		&s.CreatedBy,
		&s.UpdatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanStaff(row)
}

func (r *PgRepository) GetStaffByIDAndScope(ctx context.Context, id uuid.UUID, scope Scope) (*Staff, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE id = $1 AND staff_scope = $2 AND deleted_at IS NULL
	`, id, scope)
	return scanStaff(row)
}

func (r *PgRepository) GetStaffByMobile(ctx context.Context, mobile string) (*Staff, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE mobile = $1 AND deleted_at IS NULL
	`, mobile)
	return scanStaff(row)
}

func (r *PgRepository) InsertStaff(ctx context.Context, st Staff) (*Staff, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO staff (
			id, name, mobile, email, staff_scope, department, designation,
			society_id, unit_id, company_id, is_verified,
			created_by, updated_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		RETURNING `+staffColumns+`
	`, st.ID, st.Name, st.Mobile, st.Email, st.Scope, st.Department, st.Designation,
		st.SocietyID, st.UnitID, st.CompanyID, st.IsVerified, st.CreatedBy, st.UpdatedBy)
	return scanStaff(row)
}

func (r *PgRepository) UpdateStaff(ctx context.Context, st Staff) (*Staff, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE staff
		SET name = $2,
		    email = $3,
		    department = $4,
		    designation = $5,
		    is_verified = $6,
		    aadhaar_number = $7,
		    residential_address = $8,
		    next_of_kin_name = $9,
		    next_of_kin_mobile = $10,
		    photo_url = $11,
		    verified_at = $12,
		    verified_by_member_id = $13,
		    updated_by = $14,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+staffColumns+`
	`, st.ID, st.Name, st.Email, st.Department, st.Designation, st.IsVerified,
		st.AadhaarNumber, st.ResidentialAddress, st.NextOfKinName, st.NextOfKinMobile,
		st.PhotoURL, st.VerifiedAt, st.VerifiedByMemberID, st.UpdatedBy)
	return scanStaff(row)
}

func (r *PgRepository) SoftDeleteStaff(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE staff
		SET deleted_at = now(),
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *PgRepository) ExpireActiveOTPs(ctx context.Context, mobile string, now time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE staff_otps
		SET expires_at = $2
		WHERE mobile = $1 AND verified = false AND expires_at > $2
	`, mobile, now)
	if err != nil {
		return fmt.Errorf("expire active otps: %w", err)
	}
	return nil
}

func (r *PgRepository) InsertOTP(ctx context.Context, otp OTP) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_otps (mobile, code, verified, expires_at, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, otp.Mobile, otp.Code, otp.Verified, otp.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

func (r *PgRepository) FindValidOTP(ctx context.Context, mobile, code string, now time.Time) (*OTP, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, mobile, code, verified, expires_at, created_at
		FROM staff_otps
		WHERE mobile = $1 AND code = $2 AND verified = false AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`, mobile, code, now)

	var o OTP
	err := row.Scan(&o.ID, &o.Mobile, &o.Code, &o.Verified, &o.ExpiresAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}

	return &o, nil
}

func (r *PgRepository) MarkOTPVerified(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE staff_otps
		SET verified = true
		WHERE id = $1
	`, id)
	return err
}

func (r *PgRepository) DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM staff_otps
		WHERE verified = false AND expires_at < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
