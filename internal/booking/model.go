package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
)

type RepeatType string

const (
	RepeatOnce   RepeatType = "once"
	RepeatDaily  RepeatType = "daily"
	RepeatWeekly RepeatType = "weekly"
)

func (r RepeatType) Valid() bool {
	return r == RepeatOnce || r == RepeatDaily || r == RepeatWeekly
}

type Booking struct {
	ID         uuid.UUID
	StaffID    uuid.UUID
	MemberID   uuid.UUID
	UnitID     int64
	CompanyID  int64
	StartDate  time.Time
	EndDate    time.Time
	RepeatType RepeatType
	Notes      *string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingSlot is one concrete (date, hour) occurrence of a booking. Slots
// are created in bulk with the booking and dropped in bulk on reschedule
// or cancel.
type BookingSlot struct {
	ID          int64
	BookingID   uuid.UUID
	Date        time.Time
	Hour        int
	IsConfirmed bool
}

type CreateRequest struct {
	StaffID    uuid.UUID
	MemberID   uuid.UUID
	UnitID     int64
	CompanyID  int64
	StartDate  time.Time
	EndDate    time.Time
	RepeatType RepeatType
	SlotHours  []int
	Notes      *string
}

// Detail is one booking together with every slot it owns.
type Detail struct {
	Booking Booking
	Slots   []BookingSlot
}

// MemberBookingRow is one flattened (booking, slot) pair as listed on a
// member's calendar.
type MemberBookingRow struct {
	BookingID uuid.UUID `json:"booking_id"`
	StaffID   uuid.UUID `json:"staff_id"`
	Date      time.Time `json:"date"`
	Hour      int       `json:"hour"`
	Status    Status    `json:"status"`
}
