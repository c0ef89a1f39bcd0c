package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/staff"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeRepo struct {
	bookings map[uuid.UUID]Booking
	slots    map[uuid.UUID][]BookingSlot
	nextSlot int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[uuid.UUID]Booking),
		slots:    make(map[uuid.UUID][]BookingSlot),
	}
}

func (f *fakeRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (f *fakeRepo) CreateBookingWithSlots(_ context.Context, b Booking, slots []BookingSlot) (*Booking, error) {
	f.bookings[b.ID] = b
	for _, s := range slots {
		f.nextSlot++
		s.ID = f.nextSlot
		s.BookingID = b.ID
		f.slots[b.ID] = append(f.slots[b.ID], s)
	}
	return &b, nil
}

func (f *fakeRepo) RescheduleBooking(_ context.Context, b Booking, slots []BookingSlot) (*Booking, error) {
	if _, ok := f.bookings[b.ID]; !ok {
		return nil, ErrBookingNotFound
	}
	f.bookings[b.ID] = b
	f.slots[b.ID] = nil
	for _, s := range slots {
		f.nextSlot++
		s.ID = f.nextSlot
		s.BookingID = b.ID
		f.slots[b.ID] = append(f.slots[b.ID], s)
	}
	return &b, nil
}

func (f *fakeRepo) DeleteBookingWithSlots(_ context.Context, id uuid.UUID) error {
	if _, ok := f.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(f.bookings, id)
	delete(f.slots, id)
	return nil
}

func (f *fakeRepo) ListSlotsByBooking(_ context.Context, bookingID uuid.UUID) ([]BookingSlot, error) {
	return f.slots[bookingID], nil
}

func (f *fakeRepo) ListRowsByMember(_ context.Context, memberID uuid.UUID) ([]MemberBookingRow, error) {
	var rows []MemberBookingRow
	for _, b := range f.bookings {
		if b.MemberID == memberID {
			for range f.slots[b.ID] {
				rows = append(rows, MemberBookingRow{BookingID: b.ID})
			}
		}
	}
	return rows, nil
}

type fakeStaffDir struct {
	id uuid.UUID
}

func (f *fakeStaffDir) GetStaffByID(_ context.Context, id uuid.UUID) (*staff.Staff, error) {
	if id != f.id {
		return nil, staff.ErrStaffNotFound
	}
	return &staff.Staff{ID: id, IsVerified: true}, nil
}

func validCreateRequest(staffID uuid.UUID) CreateRequest {
	return CreateRequest{
		StaffID:    staffID,
		MemberID:   uuid.New(),
		UnitID:     7,
		CompanyID:  1,
		StartDate:  date("2026-04-01"),
		EndDate:    date("2026-04-03"),
		RepeatType: RepeatDaily,
		SlotHours:  []int{9, 17},
	}
}

func TestExpandDates(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{name: "single day", start: "2026-04-01", end: "2026-04-01", want: 1},
		{name: "three days", start: "2026-04-01", end: "2026-04-03", want: 3},
		{name: "across month boundary", start: "2026-04-29", end: "2026-05-02", want: 4},
		{name: "across leap day", start: "2028-02-28", end: "2028-03-01", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := ExpandDates(date(tt.start), date(tt.end))
			if len(dates) != tt.want {
				t.Fatalf("got %d dates, want %d", len(dates), tt.want)
			}
			if !dates[0].Equal(date(tt.start)) || !dates[len(dates)-1].Equal(date(tt.end)) {
				t.Errorf("range %s..%s, want %s..%s", dates[0], dates[len(dates)-1], tt.start, tt.end)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	staffID := uuid.New()

	t.Run("opens pending booking with one slot per date and hour", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, &fakeStaffDir{id: staffID})

		created, err := svc.Create(ctx, validCreateRequest(staffID))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.Status != StatusPending {
			t.Errorf("status = %s, want %s", created.Status, StatusPending)
		}

		slots := repo.slots[created.ID]
		if len(slots) != 6 { // 3 days x 2 hours
			t.Fatalf("got %d slots, want 6", len(slots))
		}
		for _, s := range slots {
			if s.IsConfirmed {
				t.Error("new slots must start unconfirmed")
			}
		}
	})

	t.Run("weekly repeat still expands daily", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, &fakeStaffDir{id: staffID})

		req := validCreateRequest(staffID)
		req.RepeatType = RepeatWeekly
		req.EndDate = date("2026-04-08")
		req.SlotHours = []int{9}

		created, err := svc.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if got := len(repo.slots[created.ID]); got != 8 {
			t.Errorf("got %d slots, want 8", got)
		}
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakeStaffDir{id: staffID})

		tests := []struct {
			name    string
			mutate  func(*CreateRequest)
			wantErr error
		}{
			{"bad repeat type", func(r *CreateRequest) { r.RepeatType = "monthly" }, ErrInvalidRepeatType},
			{"inverted range", func(r *CreateRequest) { r.StartDate, r.EndDate = r.EndDate, r.StartDate }, ErrInvalidDateRange},
			{"hour out of range", func(r *CreateRequest) { r.SlotHours = []int{24} }, ErrInvalidHour},
			{"negative hour", func(r *CreateRequest) { r.SlotHours = []int{-1} }, ErrInvalidHour},
			{"no hours", func(r *CreateRequest) { r.SlotHours = nil }, ErrNoSlotHours},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := validCreateRequest(staffID)
				tt.mutate(&req)
				if _, err := svc.Create(ctx, req); !errors.Is(err, tt.wantErr) {
					t.Errorf("got %v, want %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("unknown staff", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakeStaffDir{id: staffID})

		req := validCreateRequest(uuid.New())
		if _, err := svc.Create(ctx, req); !errors.Is(err, staff.ErrStaffNotFound) {
			t.Errorf("got %v, want ErrStaffNotFound", err)
		}
	})
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()
	staffID := uuid.New()
	repo := newFakeRepo()
	svc := NewService(repo, &fakeStaffDir{id: staffID})

	created, err := svc.Create(ctx, validCreateRequest(staffID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newDate := date("2026-04-10")
	updated, err := svc.Reschedule(ctx, created.ID, newDate, []int{11})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	if updated.Status != StatusRescheduled {
		t.Errorf("status = %s, want %s", updated.Status, StatusRescheduled)
	}
	if !updated.StartDate.Equal(newDate) || !updated.EndDate.Equal(newDate) {
		t.Errorf("date range %s..%s, want pinned to %s", updated.StartDate, updated.EndDate, newDate)
	}

	slots := repo.slots[created.ID]
	if len(slots) != 1 {
		t.Fatalf("got %d slots after reschedule, want 1", len(slots))
	}
	if !slots[0].Date.Equal(newDate) || slots[0].Hour != 11 {
		t.Errorf("slot = %s hour %d, want %s hour 11", slots[0].Date, slots[0].Hour, newDate)
	}

	t.Run("unknown booking", func(t *testing.T) {
		if _, err := svc.Reschedule(ctx, uuid.New(), newDate, []int{11}); !errors.Is(err, ErrBookingNotFound) {
			t.Errorf("got %v, want ErrBookingNotFound", err)
		}
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	staffID := uuid.New()
	repo := newFakeRepo()
	svc := NewService(repo, &fakeStaffDir{id: staffID})

	created, err := svc.Create(ctx, validCreateRequest(staffID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	detail, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Booking.ID != created.ID {
		t.Errorf("booking id: got %s, want %s", detail.Booking.ID, created.ID)
	}
	// 3 days x 2 hours
	if len(detail.Slots) != 6 {
		t.Fatalf("slots: got %d, want 6", len(detail.Slots))
	}
	for _, s := range detail.Slots {
		if s.BookingID != created.ID {
			t.Errorf("slot %d belongs to booking %s", s.ID, s.BookingID)
		}
	}

	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("unknown booking: got %v, want ErrBookingNotFound", err)
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	staffID := uuid.New()
	repo := newFakeRepo()
	svc := NewService(repo, &fakeStaffDir{id: staffID})

	created, err := svc.Create(ctx, validCreateRequest(staffID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Cancel(ctx, created.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(repo.bookings) != 0 {
		t.Error("booking row survived cancellation")
	}
	if len(repo.slots[created.ID]) != 0 {
		t.Error("slots survived cancellation")
	}

	if err := svc.Cancel(ctx, created.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("second cancel: got %v, want ErrBookingNotFound", err)
	}
}
