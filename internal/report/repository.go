package report

import (
	"context"
	"errors"
)

var (
	ErrInvalidMonth     = errors.New("month must be in YYYY-MM format")
	ErrInvalidDimension = errors.New("dimension must be building, floor or member")
)

// Repository reads the billing tables. Reporting never writes.
type Repository interface {
	ListDues(ctx context.Context, f DuesFilters) ([]DueRow, int, error)
	SumDueByDimension(ctx context.Context, month string, dim Dimension, limit int) ([]ChartBucket, error)
}
