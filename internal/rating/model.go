package rating

import (
	"time"

	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/staff"
)

// StaffRef names a staff member together with the scope its id refers to,
// so the polymorphic staff reference is a single tagged value instead of a
// discriminator branched on at every call site.
type StaffRef struct {
	Type staff.Scope
	ID   uuid.UUID
}

type Rating struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	StaffID   uuid.UUID
	StaffType staff.Scope
	Rating    int
	Feedback  *string
	CreatedAt time.Time
}

type SubmitRequest struct {
	MemberID uuid.UUID
	Staff    StaffRef
	Rating   int
	Feedback *string
}

// StaffSummary is the resolved view of a StaffRef.
type StaffSummary struct {
	ID          uuid.UUID
	Name        string
	Designation *string
	PhotoURL    *string
}

type Review struct {
	Rating     int       `json:"rating"`
	Feedback   *string   `json:"feedback"`
	MemberName string    `json:"member_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type Summary struct {
	Staff         StaffRef
	AverageRating float64
	TotalRatings  int
	Distribution  map[int]int
	RecentReviews []Review
}

// AggregateRow is one (staff, staffType) group in the admin view.
type AggregateRow struct {
	StaffID       uuid.UUID
	StaffType     staff.Scope
	AverageRating float64
	TotalRatings  int
	StaffName     string
	Designation   *string
	PhotoURL      *string
}

// AggregateFilters constrain the admin aggregation. Min/Max apply to the
// aggregated average, not to individual ratings.
type AggregateFilters struct {
	StaffType *staff.Scope
	MinAvg    *float64
	MaxAvg    *float64
	Search    string
	Page      int
	Limit     int
}

// ListFilters constrain the flat rating listing and CSV export. Min/Max
// here apply to individual rating values.
type ListFilters struct {
	StaffType *staff.Scope
	MinRating *int
	MaxRating *int
	Page      int
	Limit     int
}

// RatingWithMember is a rating row joined with its author's name.
type RatingWithMember struct {
	Rating
	MemberName string
}
