package report

import (
	"context"
	"fmt"
	"time"
)

// topMemberCount bounds the "top members" chart dimension.
const topMemberCount = 10

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock overrides the service's time source for the overdue cutoff.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func validMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}

// Dues lists outstanding bills for the committee, oldest due date first.
// Rows with nothing outstanding are excluded.
func (s *Service) Dues(ctx context.Context, f DuesFilters) ([]DueRow, int, error) {
	if f.Month != "" && !validMonth(f.Month) {
		return nil, 0, ErrInvalidMonth
	}
	if f.PerPage <= 0 {
		f.PerPage = 15
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	f.Now = s.now()

	rows, total, err := s.repo.ListDues(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list dues: %w", err)
	}
	return rows, total, nil
}

// ChartSummary sums outstanding dues per dimension label for one billing
// month, sorted descending. The member dimension is truncated to the top
// ten.
func (s *Service) ChartSummary(ctx context.Context, month string, dim Dimension) ([]ChartBucket, error) {
	if !validMonth(month) {
		return nil, ErrInvalidMonth
	}
	if dim == "" {
		dim = DimensionBuilding
	}
	if !dim.Valid() {
		return nil, ErrInvalidDimension
	}

	limit := 0
	if dim == DimensionMember {
		limit = topMemberCount
	}

	buckets, err := s.repo.SumDueByDimension(ctx, month, dim, limit)
	if err != nil {
		return nil, fmt.Errorf("sum dues by %s: %w", dim, err)
	}
	return buckets, nil
}
