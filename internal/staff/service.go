package staff

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMobileTaken     = errors.New("a staff with this mobile already exists")
	ErrAlreadyVerified = errors.New("staff is already verified")
	ErrOTPInvalid      = errors.New("invalid or expired OTP")
)

type Service struct {
	repo   Repository
	otpTTL time.Duration
	now    func() time.Time
}

func NewService(repo Repository, otpTTL time.Duration) *Service {
	return &Service{
		repo:   repo,
		otpTTL: otpTTL,
		now:    time.Now,
	}
}

// WithClock overrides the service's time source. Used by tests to pin the
// OTP expiry window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	st, err := s.repo.GetStaffByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	return st, nil
}

func (s *Service) CheckMobile(ctx context.Context, mobile string) (*MobileCheck, error) {
	st, err := s.repo.GetStaffByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return &MobileCheck{Exists: false}, nil
		}
		return nil, fmt.Errorf("check mobile: %w", err)
	}

	return &MobileCheck{
		Exists:   true,
		Verified: st.IsVerified,
		StaffID:  &st.ID,
	}, nil
}

func (s *Service) CreateStaff(ctx context.Context, n NewStaff) (*Staff, error) {
	_, err := s.repo.GetStaffByMobile(ctx, n.Mobile)
	if err == nil {
		return nil, ErrMobileTaken
	}
	if !errors.Is(err, ErrStaffNotFound) {
		return nil, fmt.Errorf("check mobile uniqueness: %w", err)
	}

	st := Staff{
		ID:          uuid.New(),
		Name:        n.Name,
		Mobile:      n.Mobile,
		Email:       n.Email,
		Scope:       n.Scope,
		Department:  n.Department,
		Designation: n.Designation,
		SocietyID:   n.SocietyID,
		UnitID:      n.UnitID,
		CompanyID:   n.CompanyID,
		IsVerified:  false,
		CreatedBy:   n.CreatedBy,
		UpdatedBy:   n.CreatedBy,
	}

	created, err := s.repo.InsertStaff(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	return created, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id uuid.UUID, upd StaffUpdate) (*Staff, error) {
	st, err := s.repo.GetStaffByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}

	if upd.Name != nil {
		st.Name = *upd.Name
	}
	if upd.Email != nil {
		st.Email = upd.Email
	}
	if upd.Department != nil {
		st.Department = upd.Department
	}
	if upd.Designation != nil {
		st.Designation = upd.Designation
	}
	st.UpdatedBy = upd.UpdatedBy

	updated, err := s.repo.UpdateStaff(ctx, *st)
	if err != nil {
		return nil, fmt.Errorf("update staff: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDeleteStaff(ctx, id); err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	return nil
}

// VerifyStaff records the in-person verification details and flips the
// staff to verified. Verifying twice is rejected.
func (s *Service) VerifyStaff(ctx context.Context, id uuid.UUID, v Verification) (*Staff, error) {
	st, err := s.repo.GetStaffByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}

	if st.IsVerified {
		return nil, ErrAlreadyVerified
	}

	now := s.now()
	st.AadhaarNumber = &v.AadhaarNumber
	st.ResidentialAddress = &v.ResidentialAddress
	st.NextOfKinName = &v.NextOfKinName
	st.NextOfKinMobile = &v.NextOfKinMobile
	st.PhotoURL = v.PhotoURL
	st.IsVerified = true
	st.VerifiedAt = &now
	st.VerifiedByMemberID = &v.VerifiedByMemberID
	st.UpdatedBy = v.VerifiedByMemberID

	updated, err := s.repo.UpdateStaff(ctx, *st)
	if err != nil {
		return nil, fmt.Errorf("verify staff: %w", err)
	}
	return updated, nil
}

// SendOTP invalidates any outstanding codes for the mobile and issues a
// fresh one. Delivery over SMS is an external collaborator; the code is
// only ever stored, never returned to the caller.
func (s *Service) SendOTP(ctx context.Context, mobile string) error {
	now := s.now()

	if err := s.repo.ExpireActiveOTPs(ctx, mobile, now); err != nil {
		return fmt.Errorf("invalidate outstanding otps: %w", err)
	}

	otp := OTP{
		Mobile:    mobile,
		Code:      fmt.Sprintf("%06d", rand.Intn(1000000)),
		Verified:  false,
		ExpiresAt: now.Add(s.otpTTL),
	}

	if err := s.repo.InsertOTP(ctx, otp); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	return nil
}

func (s *Service) VerifyOTP(ctx context.Context, mobile, code string) error {
	otp, err := s.repo.FindValidOTP(ctx, mobile, code, s.now())
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("find otp: %w", err)
	}

	if err := s.repo.MarkOTPVerified(ctx, otp.ID); err != nil {
		return fmt.Errorf("mark otp verified: %w", err)
	}

	return nil
}

// PurgeExpiredOTPs is intended to be called by the worker periodically.
func (s *Service) PurgeExpiredOTPs(ctx context.Context) error {
	n, err := s.repo.DeleteExpiredOTPs(ctx, s.now())
	if err != nil {
		return fmt.Errorf("purge expired otps: %w", err)
	}
	if n > 0 {
		log.Printf("purged %d expired otps", n)
	}
	return nil
}
