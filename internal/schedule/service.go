package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/societyhq/member-staff-service/internal/redis"
	"github.com/societyhq/member-staff-service/internal/staff"
)

var (
	ErrStaffNotVerified = errors.New("staff must be verified before adding time slots")
	ErrScheduleBusy     = errors.New("schedule is currently being modified, please retry")
	ErrInvalidInterval  = errors.New("start time must be before end time")
)

// ConflictError reports a proposed slot rejected because it intersects a
// persisted one. The existing slot is attached so the caller can resolve
// and resubmit.
type ConflictError struct {
	Proposed NewSlot
	Existing TimeSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot %s-%s on %s conflicts with existing slot %s",
		FormatClock(e.Proposed.StartMinutes),
		FormatClock(e.Proposed.EndMinutes),
		FormatDate(e.Proposed.Date),
		e.Existing.ID)
}

// StaffDirectory is the slice of the staff store the allocator needs.
type StaffDirectory interface {
	GetStaffByID(ctx context.Context, id uuid.UUID) (*staff.Staff, error)
}

type Service struct {
	repo   Repository
	staff  StaffDirectory
	locker redisclient.Locker
}

func NewService(repo Repository, staffDir StaffDirectory, locker redisclient.Locker) *Service {
	return &Service{
		repo:   repo,
		staff:  staffDir,
		locker: locker,
	}
}

func (s *Service) verifiedStaff(ctx context.Context, staffID uuid.UUID) (*staff.Staff, error) {
	st, err := s.staff.GetStaffByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load staff: %w", err)
	}
	if !st.IsVerified {
		return nil, ErrStaffNotVerified
	}
	return st, nil
}

// AddSlot persists a proposed slot unless it overlaps an active slot for
// the same staff and date. The check-then-insert runs under a per
// (staff, date) Redis lock so concurrent additions cannot both pass the
// overlap check against a stale read.
func (s *Service) AddSlot(ctx context.Context, staffID uuid.UUID, proposed NewSlot) (*TimeSlot, error) {
	if proposed.StartMinutes >= proposed.EndMinutes {
		return nil, ErrInvalidInterval
	}

	if _, err := s.verifiedStaff(ctx, staffID); err != nil {
		return nil, err
	}

	var created *TimeSlot

	err := s.locker.WithScheduleLock(ctx, staffID, proposed.Date, func(lockCtx context.Context) error {
		existing, err := s.repo.ListByStaffDate(lockCtx, staffID, proposed.Date)
		if err != nil {
			return fmt.Errorf("list slots for date: %w", err)
		}

		for _, sl := range existing {
			if Overlaps(proposed.Interval(), sl.Interval()) {
				return &ConflictError{Proposed: proposed, Existing: sl}
			}
		}

		created, err = s.repo.InsertSlot(lockCtx, TimeSlot{
			ID:           uuid.New(),
			StaffID:      staffID,
			Date:         proposed.Date,
			StartMinutes: proposed.StartMinutes,
			EndMinutes:   proposed.EndMinutes,
			IsBooked:     proposed.IsBooked,
		})
		if err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	return created, nil
}

// UpdateSlot mirrors AddSlot but excludes the slot under update from the
// conflict set.
func (s *Service) UpdateSlot(ctx context.Context, staffID, slotID uuid.UUID, upd SlotUpdate) (*TimeSlot, error) {
	if _, err := s.staff.GetStaffByID(ctx, staffID); err != nil {
		return nil, err
	}

	current, err := s.repo.GetSlotByID(ctx, staffID, slotID)
	if err != nil {
		return nil, err
	}

	next := *current
	if upd.Date != nil {
		next.Date = *upd.Date
	}
	if upd.StartMinutes != nil {
		next.StartMinutes = *upd.StartMinutes
	}
	if upd.EndMinutes != nil {
		next.EndMinutes = *upd.EndMinutes
	}
	if upd.IsBooked != nil {
		next.IsBooked = *upd.IsBooked
	}

	if next.StartMinutes >= next.EndMinutes {
		return nil, ErrInvalidInterval
	}

	var updated *TimeSlot

	err = s.locker.WithScheduleLock(ctx, staffID, next.Date, func(lockCtx context.Context) error {
		others, err := s.repo.ListByStaffDateExcluding(lockCtx, staffID, next.Date, slotID)
		if err != nil {
			return fmt.Errorf("list slots for date: %w", err)
		}

		for _, sl := range others {
			if Overlaps(next.Interval(), sl.Interval()) {
				return &ConflictError{
					Proposed: NewSlot{
						Date:         next.Date,
						StartMinutes: next.StartMinutes,
						EndMinutes:   next.EndMinutes,
						IsBooked:     next.IsBooked,
					},
					Existing: sl,
				}
			}
		}

		updated, err = s.repo.UpdateSlot(lockCtx, next)
		if err != nil {
			return fmt.Errorf("update slot: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	return updated, nil
}

func (s *Service) RemoveSlot(ctx context.Context, staffID, slotID uuid.UUID) error {
	if _, err := s.staff.GetStaffByID(ctx, staffID); err != nil {
		return err
	}
	return s.repo.SoftDeleteSlot(ctx, staffID, slotID)
}

// BulkAddSlots checks each proposed slot independently against what is
// persisted at the time of its check. Proposed slots are not cross-checked
// against each other, so two overlapping slots in the same batch both land.
// The batch is not atomic; the itemized result reports partial success.
func (s *Service) BulkAddSlots(ctx context.Context, staffID uuid.UUID, proposed []NewSlot) (*BulkResult, error) {
	if _, err := s.verifiedStaff(ctx, staffID); err != nil {
		return nil, err
	}

	result := &BulkResult{}

	for _, p := range proposed {
		if p.StartMinutes >= p.EndMinutes {
			return nil, ErrInvalidInterval
		}

		existing, err := s.repo.ListByStaffDate(ctx, staffID, p.Date)
		if err != nil {
			return nil, fmt.Errorf("list slots for date: %w", err)
		}

		var conflict *TimeSlot
		for i := range existing {
			if Overlaps(p.Interval(), existing[i].Interval()) {
				conflict = &existing[i]
				break
			}
		}

		if conflict != nil {
			result.Conflicting = append(result.Conflicting, SlotConflict{
				Proposed: p,
				Existing: *conflict,
			})
			continue
		}

		created, err := s.repo.InsertSlot(ctx, TimeSlot{
			ID:           uuid.New(),
			StaffID:      staffID,
			Date:         p.Date,
			StartMinutes: p.StartMinutes,
			EndMinutes:   p.EndMinutes,
			IsBooked:     p.IsBooked,
		})
		if err != nil {
			return nil, fmt.Errorf("insert slot: %w", err)
		}

		result.Added = append(result.Added, *created)
	}

	return result, nil
}

// GetSchedule lists a staff member's active slots over an inclusive date
// window.
func (s *Service) GetSchedule(ctx context.Context, staffID uuid.UUID, start, end time.Time) ([]TimeSlot, error) {
	if _, err := s.staff.GetStaffByID(ctx, staffID); err != nil {
		return nil, err
	}
	slots, err := s.repo.ListByStaffRange(ctx, staffID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return slots, nil
}

func (s *Service) ListForDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]TimeSlot, error) {
	if _, err := s.staff.GetStaffByID(ctx, staffID); err != nil {
		return nil, err
	}
	slots, err := s.repo.ListByStaffDate(ctx, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("list slots for date: %w", err)
	}
	return slots, nil
}
