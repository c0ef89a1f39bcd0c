package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
)

// Repository contains all DB interactions needed by the service. The
// multi-row writes (booking plus its slots) run inside a single
// transaction and roll back wholesale on any failure.
type Repository interface {
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	CreateBookingWithSlots(ctx context.Context, b Booking, slots []BookingSlot) (*Booking, error)
	RescheduleBooking(ctx context.Context, b Booking, slots []BookingSlot) (*Booking, error)
	DeleteBookingWithSlots(ctx context.Context, id uuid.UUID) error

	ListSlotsByBooking(ctx context.Context, bookingID uuid.UUID) ([]BookingSlot, error)
	ListRowsByMember(ctx context.Context, memberID uuid.UUID) ([]MemberBookingRow, error)
}
