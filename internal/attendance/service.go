package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/societyhq/member-staff-service/internal/redis"
)

var (
	ErrInvalidStatus = errors.New("attendance status must be present or absent")
	ErrInvalidMonth  = errors.New("month must be in YYYY-MM format")
	ErrNoEntries     = errors.New("at least one attendance entry is required")
)

type Service struct {
	repo      Repository
	publisher redisclient.Publisher
}

func NewService(repo Repository, publisher redisclient.Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

// Record upserts each entry for the member's unit on the given date and
// broadcasts an update per saved record. A failed broadcast does not fail
// the save; the dashboard catches up on its next poll.
func (s *Service) Record(ctx context.Context, req RecordRequest) error {
	if len(req.Entries) == 0 {
		return ErrNoEntries
	}
	for _, e := range req.Entries {
		if !e.Status.Valid() {
			return ErrInvalidStatus
		}
	}

	for _, e := range req.Entries {
		saved, err := s.repo.UpsertAttendance(ctx, Attendance{
			MemberID: req.MemberID,
			StaffID:  e.StaffID,
			UnitID:   req.UnitID,
			Date:     req.Date,
			Status:   e.Status,
			Note:     e.Note,
			PhotoURL: e.PhotoURL,
		})
		if err != nil {
			return fmt.Errorf("save attendance for staff %s: %w", e.StaffID, err)
		}

		s.broadcast(ctx, saved)
	}

	return nil
}

func (s *Service) broadcast(ctx context.Context, saved *AttendanceWithStaff) {
	category := "Staff"
	if saved.StaffDesignation != nil {
		category = *saved.StaffDesignation
	}

	ev := UpdatedEvent{
		ID:            saved.ID,
		StaffID:       saved.StaffID,
		StaffName:     saved.StaffName,
		StaffCategory: category,
		StaffPhoto:    saved.StaffPhotoURL,
		Status:        saved.Status,
		Note:          saved.Note,
		PhotoURL:      saved.PhotoURL,
		Date:          saved.Date.Format("2006-01-02"),
		UpdatedAt:     saved.UpdatedAt,
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("marshal attendance event: %v", err)
		return
	}

	if err := s.publisher.Publish(ctx, redisclient.AttendanceChannel, payload); err != nil {
		log.Printf("broadcast attendance update: %v", err)
	}
}

// DayLog lists every record for one date, filtered and paginated for the
// admin dashboard.
func (s *Service) DayLog(ctx context.Context, f AdminFilters) ([]AttendanceWithStaff, int, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	records, total, err := s.repo.ListByDate(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance by date: %w", err)
	}
	return records, total, nil
}

// DaySummary counts one date's marked records; staff with no record for
// the date make up the not-marked remainder.
func (s *Service) DaySummary(ctx context.Context, date time.Time) (DaySummary, error) {
	sum, err := s.repo.SummarizeDate(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}

	sum.NotMarked = sum.TotalStaff - sum.Present - sum.Absent
	if sum.NotMarked < 0 {
		sum.NotMarked = 0
	}
	return sum, nil
}

// Correct overrides a record's status after the fact and rebroadcasts the
// record. A nil note leaves the stored note in place.
func (s *Service) Correct(ctx context.Context, id int64, status Status, note *string) (*AttendanceWithStaff, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	saved, err := s.repo.UpdateStatus(ctx, id, status, note)
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, saved)
	return saved, nil
}

// MonthView groups a member's attendance for one month by date.
func (s *Service) MonthView(ctx context.Context, memberID uuid.UUID, month string) (map[string][]DayEntry, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	records, err := s.repo.ListByMemberMonth(ctx, memberID, t.Year(), int(t.Month()))
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	result := make(map[string][]DayEntry)
	for _, rec := range records {
		category := "Staff"
		if rec.StaffDesignation != nil {
			category = *rec.StaffDesignation
		}

		dateStr := rec.Date.Format("2006-01-02")
		result[dateStr] = append(result[dateStr], DayEntry{
			StaffID:       rec.StaffID,
			StaffName:     rec.StaffName,
			StaffPhoto:    rec.StaffPhotoURL,
			StaffCategory: category,
			Status:        rec.Status,
			Note:          rec.Note,
			PhotoURL:      rec.PhotoURL,
		})
	}

	return result, nil
}
