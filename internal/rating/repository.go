package rating

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrMemberNotFound = errors.New("member not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	InsertRating(ctx context.Context, r Rating) (*Rating, error)

	// Monthly-window pre-check
	FindRecentByAuthorAndStaff(ctx context.Context, memberID uuid.UUID, ref StaffRef, since time.Time) (*Rating, error)

	// Summary
	AverageAndCount(ctx context.Context, ref StaffRef) (float64, int, error)
	Distribution(ctx context.Context, ref StaffRef) (map[int]int, error)
	RecentReviews(ctx context.Context, ref StaffRef, limit int) ([]Review, error)

	// Admin
	AggregateByStaff(ctx context.Context, f AggregateFilters) ([]AggregateRow, error)
	ListRatings(ctx context.Context, f ListFilters) ([]RatingWithMember, int, error)

	// Caller context checks
	MemberExists(ctx context.Context, memberID uuid.UUID) (bool, error)
	IsStaffAssignedToMember(ctx context.Context, memberID, staffID uuid.UUID) (bool, error)
}
