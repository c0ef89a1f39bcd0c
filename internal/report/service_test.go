package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	rows []DueRow

	lastFilters DuesFilters
	lastDim     Dimension
	lastLimit   int
}

func (f *fakeRepo) ListDues(_ context.Context, filters DuesFilters) ([]DueRow, int, error) {
	f.lastFilters = filters
	return f.rows, len(f.rows), nil
}

func (f *fakeRepo) SumDueByDimension(_ context.Context, _ string, dim Dimension, limit int) ([]ChartBucket, error) {
	f.lastDim = dim
	f.lastLimit = limit
	return []ChartBucket{{Label: "Tower A", TotalDue: 42000}}, nil
}

func TestDues(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects malformed month", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		for _, month := range []string{"2026", "03-2026", "2026-13", "March"} {
			if _, _, err := svc.Dues(ctx, DuesFilters{Month: month}); !errors.Is(err, ErrInvalidMonth) {
				t.Errorf("month %q: got %v, want ErrInvalidMonth", month, err)
			}
		}
	})

	t.Run("empty month means all cycles", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		if _, _, err := svc.Dues(ctx, DuesFilters{}); err != nil {
			t.Fatalf("Dues: %v", err)
		}
	})

	t.Run("defaults and caps page size", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		if _, _, err := svc.Dues(ctx, DuesFilters{}); err != nil {
			t.Fatalf("Dues: %v", err)
		}
		if repo.lastFilters.PerPage != 15 {
			t.Errorf("default per_page = %d, want 15", repo.lastFilters.PerPage)
		}

		if _, _, err := svc.Dues(ctx, DuesFilters{PerPage: 500}); err != nil {
			t.Fatalf("Dues: %v", err)
		}
		if repo.lastFilters.PerPage != 100 {
			t.Errorf("capped per_page = %d, want 100", repo.lastFilters.PerPage)
		}
	})

	t.Run("injects the clock for the overdue cutoff", func(t *testing.T) {
		repo := &fakeRepo{}
		now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
		svc := NewService(repo).WithClock(func() time.Time { return now })

		if _, _, err := svc.Dues(ctx, DuesFilters{Status: StatusOverdue}); err != nil {
			t.Fatalf("Dues: %v", err)
		}
		if !repo.lastFilters.Now.Equal(now) {
			t.Errorf("cutoff = %s, want %s", repo.lastFilters.Now, now)
		}
	})
}

func TestChartSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to building dimension", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		if _, err := svc.ChartSummary(ctx, "2026-05", ""); err != nil {
			t.Fatalf("ChartSummary: %v", err)
		}
		if repo.lastDim != DimensionBuilding {
			t.Errorf("dimension = %s, want building", repo.lastDim)
		}
		if repo.lastLimit != 0 {
			t.Errorf("limit = %d, want unlimited", repo.lastLimit)
		}
	})

	t.Run("member dimension is truncated to the top ten", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		if _, err := svc.ChartSummary(ctx, "2026-05", DimensionMember); err != nil {
			t.Fatalf("ChartSummary: %v", err)
		}
		if repo.lastLimit != 10 {
			t.Errorf("limit = %d, want 10", repo.lastLimit)
		}
	})

	t.Run("rejects unknown dimension", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		if _, err := svc.ChartSummary(ctx, "2026-05", "wing"); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("got %v, want ErrInvalidDimension", err)
		}
	})

	t.Run("rejects malformed month", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		if _, err := svc.ChartSummary(ctx, "last-month", DimensionBuilding); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("got %v, want ErrInvalidMonth", err)
		}
	})
}
