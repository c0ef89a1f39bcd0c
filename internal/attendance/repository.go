package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	UpsertAttendance(ctx context.Context, a Attendance) (*AttendanceWithStaff, error)
	ListByMemberMonth(ctx context.Context, memberID uuid.UUID, year, month int) ([]AttendanceWithStaff, error)

	ListByDate(ctx context.Context, f AdminFilters) ([]AttendanceWithStaff, int, error)
	SummarizeDate(ctx context.Context, date time.Time) (DaySummary, error)
	UpdateStatus(ctx context.Context, id int64, status Status, note *string) (*AttendanceWithStaff, error)
}
