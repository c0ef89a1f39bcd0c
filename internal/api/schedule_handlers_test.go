package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/schedule"
	"github.com/societyhq/member-staff-service/internal/staff"
)

type memSlotRepo struct {
	slots []schedule.TimeSlot
}

func (m *memSlotRepo) GetSlotByID(_ context.Context, staffID, slotID uuid.UUID) (*schedule.TimeSlot, error) {
	for i := range m.slots {
		if m.slots[i].ID == slotID && m.slots[i].StaffID == staffID {
			s := m.slots[i]
			return &s, nil
		}
	}
	return nil, schedule.ErrSlotNotFound
}

func (m *memSlotRepo) ListByStaffDate(_ context.Context, staffID uuid.UUID, date time.Time) ([]schedule.TimeSlot, error) {
	var out []schedule.TimeSlot
	for _, s := range m.slots {
		if s.StaffID == staffID && schedule.SameDate(s.Date, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlotRepo) ListByStaffDateExcluding(ctx context.Context, staffID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]schedule.TimeSlot, error) {
	all, _ := m.ListByStaffDate(ctx, staffID, date)
	var out []schedule.TimeSlot
	for _, s := range all {
		if s.ID != excludeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlotRepo) ListByStaffRange(_ context.Context, staffID uuid.UUID, start, end time.Time) ([]schedule.TimeSlot, error) {
	var out []schedule.TimeSlot
	for _, s := range m.slots {
		if s.StaffID == staffID && !s.Date.Before(start) && !s.Date.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlotRepo) InsertSlot(_ context.Context, slot schedule.TimeSlot) (*schedule.TimeSlot, error) {
	m.slots = append(m.slots, slot)
	return &slot, nil
}

func (m *memSlotRepo) UpdateSlot(_ context.Context, slot schedule.TimeSlot) (*schedule.TimeSlot, error) {
	for i := range m.slots {
		if m.slots[i].ID == slot.ID {
			m.slots[i] = slot
			return &slot, nil
		}
	}
	return nil, schedule.ErrSlotNotFound
}

func (m *memSlotRepo) SoftDeleteSlot(_ context.Context, staffID, slotID uuid.UUID) error {
	for i := range m.slots {
		if m.slots[i].ID == slotID && m.slots[i].StaffID == staffID {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return nil
		}
	}
	return schedule.ErrSlotNotFound
}

type memStaffDir struct {
	staff map[uuid.UUID]*staff.Staff
}

func (m *memStaffDir) GetStaffByID(_ context.Context, id uuid.UUID) (*staff.Staff, error) {
	st, ok := m.staff[id]
	if !ok {
		return nil, staff.ErrStaffNotFound
	}
	return st, nil
}

type inlineLocker struct{}

func (inlineLocker) WithScheduleLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newScheduleRouter(t *testing.T, verified bool) (http.Handler, uuid.UUID) {
	t.Helper()

	staffID := uuid.New()
	dir := &memStaffDir{staff: map[uuid.UUID]*staff.Staff{
		staffID: {ID: staffID, Name: "Ramesh", IsVerified: verified},
	}}
	svc := schedule.NewService(&memSlotRepo{}, dir, inlineLocker{})

	r := chi.NewRouter()
	r.Post("/staff/{staffId}/schedule/slots", addTimeSlotHandler(svc))
	r.Post("/staff/{staffId}/schedule/slots/bulk", bulkAddTimeSlotsHandler(svc))
	r.Get("/staff/{staffId}/schedule", getScheduleHandler(svc))
	return r, staffID
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAddTimeSlotEndpoint(t *testing.T) {
	t.Run("creates a slot", func(t *testing.T) {
		h, staffID := newScheduleRouter(t, true)

		rec := postJSON(t, h, "/staff/"+staffID.String()+"/schedule/slots",
			`{"date": "2026-03-10", "start_time": "09:00", "end_time": "10:00"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
		}

		var body TimeSlotResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.StartTime != "09:00" || body.EndTime != "10:00" {
			t.Errorf("times = %s-%s, want 09:00-10:00", body.StartTime, body.EndTime)
		}
		if body.StaffID != staffID {
			t.Errorf("staff = %s, want %s", body.StaffID, staffID)
		}
	})

	t.Run("conflict returns the existing slot", func(t *testing.T) {
		h, staffID := newScheduleRouter(t, true)
		path := "/staff/" + staffID.String() + "/schedule/slots"

		first := postJSON(t, h, path, `{"date": "2026-03-10", "start_time": "09:00", "end_time": "11:00"}`)
		if first.Code != http.StatusCreated {
			t.Fatalf("first add: %d", first.Code)
		}

		rec := postJSON(t, h, path, `{"date": "2026-03-10", "start_time": "10:00", "end_time": "12:00"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
		}

		var body slotConflictBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Error != "slot_conflict" {
			t.Errorf("error = %q, want slot_conflict", body.Error)
		}
		if body.ConflictingSlot.StartTime != "09:00" {
			t.Errorf("conflicting slot starts %s, want 09:00", body.ConflictingSlot.StartTime)
		}
	})

	t.Run("unverified staff is rejected", func(t *testing.T) {
		h, staffID := newScheduleRouter(t, false)

		rec := postJSON(t, h, "/staff/"+staffID.String()+"/schedule/slots",
			`{"date": "2026-03-10", "start_time": "09:00", "end_time": "10:00"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
		}
	})

	t.Run("unknown staff is a 404", func(t *testing.T) {
		h, _ := newScheduleRouter(t, true)

		rec := postJSON(t, h, "/staff/"+uuid.NewString()+"/schedule/slots",
			`{"date": "2026-03-10", "start_time": "09:00", "end_time": "10:00"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body)
		}
	})

	t.Run("field errors come back as a validation response", func(t *testing.T) {
		h, staffID := newScheduleRouter(t, true)

		rec := postJSON(t, h, "/staff/"+staffID.String()+"/schedule/slots",
			`{"date": "10-03-2026", "start_time": "9am", "end_time": "10:00"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body)
		}

		var body ValidationErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if _, ok := body.Errors["date"]; !ok {
			t.Error("missing field error for date")
		}
		if _, ok := body.Errors["start_time"]; !ok {
			t.Error("missing field error for start_time")
		}
	})
}

func TestBulkAddTimeSlotsEndpoint(t *testing.T) {
	h, staffID := newScheduleRouter(t, true)
	base := "/staff/" + staffID.String() + "/schedule"

	first := postJSON(t, h, base+"/slots", `{"date": "2026-03-10", "start_time": "09:00", "end_time": "10:00"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("seed slot: %d", first.Code)
	}

	rec := postJSON(t, h, base+"/slots/bulk", `{"time_slots": [
		{"date": "2026-03-10", "start_time": "09:30", "end_time": "10:30"},
		{"date": "2026-03-10", "start_time": "14:00", "end_time": "15:00"}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var body BulkTimeSlotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.AddedTimeSlots) != 1 {
		t.Errorf("added = %d, want 1", len(body.AddedTimeSlots))
	}
	if len(body.ConflictingTimeSlots) != 1 {
		t.Fatalf("conflicting = %d, want 1", len(body.ConflictingTimeSlots))
	}
	if body.ConflictingTimeSlots[0].NewSlot.StartTime != "09:30" {
		t.Errorf("conflicting proposal starts %s, want 09:30", body.ConflictingTimeSlots[0].NewSlot.StartTime)
	}
}

func TestGetScheduleEndpoint(t *testing.T) {
	h, staffID := newScheduleRouter(t, true)
	base := "/staff/" + staffID.String() + "/schedule"

	for _, day := range []string{"2026-03-10", "2026-03-11"} {
		rec := postJSON(t, h, base+"/slots", `{"date": "`+day+`", "start_time": "09:00", "end_time": "10:00"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed slot on %s: %d", day, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, base+"?start_date=2026-03-10&end_date=2026-03-10", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var body ScheduleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.TimeSlots) != 1 {
		t.Errorf("slots in window = %d, want 1", len(body.TimeSlots))
	}
	if body.StartDate != "2026-03-10" || body.EndDate != "2026-03-10" {
		t.Errorf("window = %s..%s", body.StartDate, body.EndDate)
	}
}
