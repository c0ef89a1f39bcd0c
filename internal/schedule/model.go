package schedule

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is one availability window for a staff member on a calendar
// date. Times of day are held as minutes since midnight. Removed slots are
// soft-deleted, never dropped.
type TimeSlot struct {
	ID           uuid.UUID
	StaffID      uuid.UUID
	Date         time.Time
	StartMinutes int
	EndMinutes   int
	IsBooked     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s TimeSlot) Interval() Interval {
	return Interval{
		Date:         s.Date,
		StartMinutes: s.StartMinutes,
		EndMinutes:   s.EndMinutes,
	}
}

// NewSlot is a proposed slot that has passed request validation but is not
// yet persisted.
type NewSlot struct {
	Date         time.Time
	StartMinutes int
	EndMinutes   int
	IsBooked     bool
}

func (n NewSlot) Interval() Interval {
	return Interval{
		Date:         n.Date,
		StartMinutes: n.StartMinutes,
		EndMinutes:   n.EndMinutes,
	}
}

// SlotUpdate carries the fields of an update request; nil means keep the
// stored value.
type SlotUpdate struct {
	Date         *time.Time
	StartMinutes *int
	EndMinutes   *int
	IsBooked     *bool
}

type SlotConflict struct {
	Proposed NewSlot
	Existing TimeSlot
}

// BulkResult itemizes a non-atomic bulk insertion: slots that landed and
// slots rejected against what was already persisted when they were checked.
type BulkResult struct {
	Added       []TimeSlot
	Conflicting []SlotConflict
}
