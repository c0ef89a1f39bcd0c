package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/staff"
)

var (
	ErrInvalidRepeatType = errors.New("repeat_type must be once, daily or weekly")
	ErrInvalidDateRange  = errors.New("end_date must not be before start_date")
	ErrInvalidHour       = errors.New("slot hours must be between 0 and 23")
	ErrNoSlotHours       = errors.New("at least one slot hour is required")
)

// StaffDirectory is the slice of the staff store the booking service needs.
type StaffDirectory interface {
	GetStaffByID(ctx context.Context, id uuid.UUID) (*staff.Staff, error)
}

type Service struct {
	repo  Repository
	staff StaffDirectory
}

func NewService(repo Repository, staffDir StaffDirectory) *Service {
	return &Service{
		repo:  repo,
		staff: staffDir,
	}
}

// ExpandDates enumerates every calendar date from start to end inclusive.
// The expansion is always a daily step; repeat_type is stored as metadata
// and does not alter it.
func ExpandDates(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func validateHours(hours []int) error {
	if len(hours) == 0 {
		return ErrNoSlotHours
	}
	for _, h := range hours {
		if h < 0 || h > 23 {
			return ErrInvalidHour
		}
	}
	return nil
}

// Create opens a pending booking and one slot per (date, hour) pair over
// the inclusive date range, as a single transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if !req.RepeatType.Valid() {
		return nil, ErrInvalidRepeatType
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if err := validateHours(req.SlotHours); err != nil {
		return nil, err
	}

	if _, err := s.staff.GetStaffByID(ctx, req.StaffID); err != nil {
		return nil, err
	}

	b := Booking{
		ID:         uuid.New(),
		StaffID:    req.StaffID,
		MemberID:   req.MemberID,
		UnitID:     req.UnitID,
		CompanyID:  req.CompanyID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		RepeatType: req.RepeatType,
		Notes:      req.Notes,
		Status:     StatusPending,
	}

	var slots []BookingSlot
	for _, date := range ExpandDates(req.StartDate, req.EndDate) {
		for _, hour := range req.SlotHours {
			slots = append(slots, BookingSlot{
				Date:        date,
				Hour:        hour,
				IsConfirmed: false,
			})
		}
	}

	created, err := s.repo.CreateBookingWithSlots(ctx, b, slots)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	return created, nil
}

// Reschedule replaces all of a booking's slots with one slot per hour at
// the new date and pins the booking's date range to that single day. Staff
// availability is not re-checked against other bookings.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time, newHours []int) (*Booking, error) {
	if err := validateHours(newHours); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.StartDate = newDate
	b.EndDate = newDate
	b.Status = StatusRescheduled

	var slots []BookingSlot
	for _, hour := range newHours {
		slots = append(slots, BookingSlot{
			Date:        newDate,
			Hour:        hour,
			IsConfirmed: false,
		})
	}

	updated, err := s.repo.RescheduleBooking(ctx, *b, slots)
	if err != nil {
		return nil, fmt.Errorf("reschedule booking: %w", err)
	}

	return updated, nil
}

// Cancel drops the booking's slots and then the booking row itself. Unlike
// time slots, bookings are hard-deleted.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetBookingByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteBookingWithSlots(ctx, id); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}

// Get returns one booking with its full slot list.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.ListSlotsByBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list booking slots: %w", err)
	}

	return &Detail{Booking: *b, Slots: slots}, nil
}

func (s *Service) ListByMember(ctx context.Context, memberID uuid.UUID) ([]MemberBookingRow, error) {
	rows, err := s.repo.ListRowsByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by member: %w", err)
	}
	return rows, nil
}
