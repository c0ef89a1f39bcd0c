package attendance

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Attendance is one staff member's presence record for one member's unit
// on one date. Records upsert on (member, staff, unit, date).
type Attendance struct {
	ID        int64
	MemberID  uuid.UUID
	StaffID   uuid.UUID
	UnitID    int64
	Date      time.Time
	Status    Status
	Note      *string
	PhotoURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Entry struct {
	StaffID  uuid.UUID
	Status   Status
	Note     *string
	PhotoURL *string
}

type RecordRequest struct {
	MemberID uuid.UUID
	UnitID   int64
	Date     time.Time
	Entries  []Entry
}

// AdminFilters constrain the admin day log. Date is required; the rest
// narrow the listing.
type AdminFilters struct {
	Date   time.Time
	Status *Status
	Search string
	Page   int
	Limit  int
}

// DaySummary counts one date's records against the active staff roster.
// Staff without a record for the date are the not-marked remainder.
type DaySummary struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	NotMarked  int `json:"not_marked"`
	TotalStaff int `json:"total_staff"`
}

// AttendanceWithStaff joins a record with the staff details the dashboard
// renders.
type AttendanceWithStaff struct {
	Attendance
	StaffName        string
	StaffDesignation *string
	StaffPhotoURL    *string
}

// DayEntry is one row in the month view, grouped under its date.
type DayEntry struct {
	StaffID       uuid.UUID `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
	StaffPhoto    *string   `json:"staff_photo"`
	StaffCategory string    `json:"staff_category"`
	Status        Status    `json:"status"`
	Note          *string   `json:"note"`
	PhotoURL      *string   `json:"photo_url"`
}

// UpdatedEvent is the payload broadcast on the attendance channel whenever
// a record is saved.
type UpdatedEvent struct {
	ID            int64     `json:"id"`
	StaffID       uuid.UUID `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
	StaffCategory string    `json:"staff_category"`
	StaffPhoto    *string   `json:"staff_photo"`
	Status        Status    `json:"status"`
	Note          *string   `json:"note"`
	PhotoURL      *string   `json:"photo_url"`
	Date          string    `json:"date"`
	UpdatedAt     time.Time `json:"updated_at"`
}
