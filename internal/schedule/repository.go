package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound = errors.New("time slot not found")
)

// Repository contains all DB interactions needed by the service. Listing
// methods return only active (non-deleted) slots.
type Repository interface {
	GetSlotByID(ctx context.Context, staffID, slotID uuid.UUID) (*TimeSlot, error)
	ListByStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]TimeSlot, error)
	ListByStaffDateExcluding(ctx context.Context, staffID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]TimeSlot, error)
	ListByStaffRange(ctx context.Context, staffID uuid.UUID, start, end time.Time) ([]TimeSlot, error)

	InsertSlot(ctx context.Context, slot TimeSlot) (*TimeSlot, error)
	UpdateSlot(ctx context.Context, slot TimeSlot) (*TimeSlot, error)
	SoftDeleteSlot(ctx context.Context, staffID, slotID uuid.UUID) error
}
