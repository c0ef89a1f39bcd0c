package staff

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStaffNotFound = errors.New("staff not found")
	ErrOTPNotFound   = errors.New("otp not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	GetStaffByIDAndScope(ctx context.Context, id uuid.UUID, scope Scope) (*Staff, error)
	GetStaffByMobile(ctx context.Context, mobile string) (*Staff, error)

	InsertStaff(ctx context.Context, st Staff) (*Staff, error)
	UpdateStaff(ctx context.Context, st Staff) (*Staff, error)
	SoftDeleteStaff(ctx context.Context, id uuid.UUID) error

	// OTP flow
	ExpireActiveOTPs(ctx context.Context, mobile string, now time.Time) error
	InsertOTP(ctx context.Context, otp OTP) error
	FindValidOTP(ctx context.Context, mobile, code string, now time.Time) (*OTP, error)
	MarkOTPVerified(ctx context.Context, id int64) error

	// Worker
	DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
}
