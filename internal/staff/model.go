package staff

import (
	"time"

	"github.com/google/uuid"
)

type Scope string

const (
	ScopeSociety Scope = "society"
	ScopeMember  Scope = "member"
)

func (s Scope) Valid() bool {
	return s == ScopeSociety || s == ScopeMember
}

type Staff struct {
	ID                 uuid.UUID
	Name               string
	Mobile             string
	Email              *string
	Scope              Scope
	Department         *string
	Designation        *string
	SocietyID          *int64
	UnitID             *int64
	CompanyID          int64
	IsVerified         bool
	AadhaarNumber      *string
	ResidentialAddress *string
	NextOfKinName      *string
	NextOfKinMobile    *string
	PhotoURL           *string
	VerifiedAt         *time.Time
	VerifiedByMemberID *uuid.UUID
	CreatedBy          uuid.UUID
	UpdatedBy          uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewStaff holds the fields of a staff creation request. Staff always start
// unverified.
type NewStaff struct {
	Name        string
	Mobile      string
	Email       *string
	Scope       Scope
	Department  *string
	Designation *string
	SocietyID   *int64
	UnitID      *int64
	CompanyID   int64
	CreatedBy   uuid.UUID
}

type StaffUpdate struct {
	Name        *string
	Email       *string
	Department  *string
	Designation *string
	UpdatedBy   uuid.UUID
}

// Verification carries the identity details captured when a member verifies
// a staff member in person.
type Verification struct {
	AadhaarNumber      string
	ResidentialAddress string
	NextOfKinName      string
	NextOfKinMobile    string
	PhotoURL           *string
	VerifiedByMemberID uuid.UUID
}

type MobileCheck struct {
	Exists   bool
	Verified bool
	StaffID  *uuid.UUID
}

type OTP struct {
	ID        int64
	Mobile    string
	Code      string
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
