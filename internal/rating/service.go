package rating

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/staff"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrStaffNotFound = errors.New("staff not found")
	ErrNotAssigned   = errors.New("staff is not assigned to this member's unit")
)

// AlreadyRatedError rejects a second rating for the same staff within the
// rating window; the existing rating is attached for the response body.
type AlreadyRatedError struct {
	Existing Rating
}

func (e *AlreadyRatedError) Error() string {
	return "staff already rated by this member in the last month"
}

// StaffResolver resolves a StaffRef against the staff store. A ref only
// resolves when both the id and the scope match, so a society staff id
// never resolves through a member-scoped ref.
type StaffResolver interface {
	GetStaffByIDAndScope(ctx context.Context, id uuid.UUID, scope staff.Scope) (*staff.Staff, error)
}

type Service struct {
	repo     Repository
	resolver StaffResolver
	now      func() time.Time
}

func NewService(repo Repository, resolver StaffResolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		now:      time.Now,
	}
}

// WithClock overrides the service's time source for the rating window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ResolveStaff is the single place a StaffRef turns into staff details.
func (s *Service) ResolveStaff(ctx context.Context, ref StaffRef) (*StaffSummary, error) {
	st, err := s.resolver.GetStaffByIDAndScope(ctx, ref.ID, ref.Type)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("resolve staff: %w", err)
	}

	return &StaffSummary{
		ID:          st.ID,
		Name:        st.Name,
		Designation: st.Designation,
		PhotoURL:    st.PhotoURL,
	}, nil
}

// Submit records a member's rating for a staff member. A member may rate
// each staff at most once per month; member-scoped staff must be assigned
// to the member's unit.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Rating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	exists, err := s.repo.MemberExists(ctx, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("check member: %w", err)
	}
	if !exists {
		return nil, ErrMemberNotFound
	}

	if _, err := s.ResolveStaff(ctx, req.Staff); err != nil {
		return nil, err
	}

	if req.Staff.Type == staff.ScopeMember {
		assigned, err := s.repo.IsStaffAssignedToMember(ctx, req.MemberID, req.Staff.ID)
		if err != nil {
			return nil, fmt.Errorf("check assignment: %w", err)
		}
		if !assigned {
			return nil, ErrNotAssigned
		}
	}

	since := s.now().AddDate(0, -1, 0)
	existing, err := s.repo.FindRecentByAuthorAndStaff(ctx, req.MemberID, req.Staff, since)
	if err != nil && !errors.Is(err, ErrRatingNotFound) {
		return nil, fmt.Errorf("check existing rating: %w", err)
	}
	if existing != nil {
		return nil, &AlreadyRatedError{Existing: *existing}
	}

	created, err := s.repo.InsertRating(ctx, Rating{
		ID:        uuid.New(),
		MemberID:  req.MemberID,
		StaffID:   req.Staff.ID,
		StaffType: req.Staff.Type,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
	})
	if err != nil {
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	return created, nil
}

// Summary returns the aggregate view of one staff member's ratings:
// average to one decimal, total, per-star distribution and the five most
// recent reviews.
func (s *Service) Summary(ctx context.Context, ref StaffRef) (*Summary, error) {
	if _, err := s.ResolveStaff(ctx, ref); err != nil {
		return nil, err
	}

	avg, count, err := s.repo.AverageAndCount(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	dist, err := s.repo.Distribution(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}

	recent, err := s.repo.RecentReviews(ctx, ref, 5)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}

	return &Summary{
		Staff:         ref,
		AverageRating: round1(avg),
		TotalRatings:  count,
		Distribution:  dist,
		RecentReviews: recent,
	}, nil
}

// AdminAggregate lists per-staff averages for the admin dashboard, ordered
// by average descending.
func (s *Service) AdminAggregate(ctx context.Context, f AggregateFilters) ([]AggregateRow, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	rows, err := s.repo.AggregateByStaff(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	for i := range rows {
		rows[i].AverageRating = round1(rows[i].AverageRating)
	}

	return rows, nil
}

func (s *Service) List(ctx context.Context, f ListFilters) ([]RatingWithMember, int, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	rows, total, err := s.repo.ListRatings(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	return rows, total, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
