package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/schedule"
	"github.com/societyhq/member-staff-service/internal/staff"
)

type slotConflictBody struct {
	Error           string           `json:"error"`
	Details         string           `json:"details"`
	ConflictingSlot TimeSlotResponse `json:"conflicting_slot"`
}

func parseSlotRequest(req TimeSlotRequest) (schedule.NewSlot, map[string]string) {
	fieldErrors := make(map[string]string)
	var slot schedule.NewSlot

	if req.Date == "" {
		fieldErrors["date"] = "date is required"
	} else {
		date, err := schedule.ParseDate(req.Date)
		if err != nil {
			fieldErrors["date"] = err.Error()
		} else {
			slot.Date = date
		}
	}

	start, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		fieldErrors["start_time"] = err.Error()
	}
	end, err := schedule.ParseClock(req.EndTime)
	if err != nil {
		fieldErrors["end_time"] = err.Error()
	}
	if len(fieldErrors) == 0 && start >= end {
		fieldErrors["end_time"] = "end_time must be after start_time"
	}

	slot.StartMinutes = start
	slot.EndMinutes = end
	if req.IsBooked != nil {
		slot.IsBooked = *req.IsBooked
	}

	if len(fieldErrors) > 0 {
		return schedule.NewSlot{}, fieldErrors
	}
	return slot, nil
}

func addTimeSlotHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		var req TimeSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		proposed, fieldErrors := parseSlotRequest(req)
		if fieldErrors != nil {
			writeValidationError(w, fieldErrors)
			return
		}

		created, err := svc.AddSlot(r.Context(), staffID, proposed)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newTimeSlotResponse(*created))
	}
}

func bulkAddTimeSlotsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		var req BulkTimeSlotsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if len(req.TimeSlots) == 0 {
			writeValidationError(w, map[string]string{"time_slots": "time_slots is required"})
			return
		}

		proposed := make([]schedule.NewSlot, 0, len(req.TimeSlots))
		for _, sr := range req.TimeSlots {
			slot, fieldErrors := parseSlotRequest(sr)
			if fieldErrors != nil {
				writeValidationError(w, fieldErrors)
				return
			}
			proposed = append(proposed, slot)
		}

		result, err := svc.BulkAddSlots(r.Context(), staffID, proposed)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := BulkTimeSlotsResponse{
			AddedTimeSlots:       newTimeSlotResponses(result.Added),
			ConflictingTimeSlots: make([]SlotConflictResponse, 0, len(result.Conflicting)),
		}
		for _, c := range result.Conflicting {
			resp.ConflictingTimeSlots = append(resp.ConflictingTimeSlots, SlotConflictResponse{
				NewSlot:      newProposedSlotResponse(c.Proposed),
				ExistingSlot: newTimeSlotResponse(c.Existing),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func updateTimeSlotHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}
		slotID, err := uuid.Parse(chi.URLParam(r, "slotId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slotId must be a valid UUID")
			return
		}

		var req UpdateTimeSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var upd schedule.SlotUpdate
		fieldErrors := make(map[string]string)

		if req.Date != nil {
			date, err := schedule.ParseDate(*req.Date)
			if err != nil {
				fieldErrors["date"] = err.Error()
			} else {
				upd.Date = &date
			}
		}
		if req.StartTime != nil {
			start, err := schedule.ParseClock(*req.StartTime)
			if err != nil {
				fieldErrors["start_time"] = err.Error()
			} else {
				upd.StartMinutes = &start
			}
		}
		if req.EndTime != nil {
			end, err := schedule.ParseClock(*req.EndTime)
			if err != nil {
				fieldErrors["end_time"] = err.Error()
			} else {
				upd.EndMinutes = &end
			}
		}
		upd.IsBooked = req.IsBooked

		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		updated, err := svc.UpdateSlot(r.Context(), staffID, slotID, upd)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newTimeSlotResponse(*updated))
	}
}

func removeTimeSlotHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}
		slotID, err := uuid.Parse(chi.URLParam(r, "slotId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slotId must be a valid UUID")
			return
		}

		if err := svc.RemoveSlot(r.Context(), staffID, slotID); err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}

func getScheduleHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		start := time.Now().UTC().Truncate(24 * time.Hour)
		if q := r.URL.Query().Get("start_date"); q != "" {
			start, err = schedule.ParseDate(q)
			if err != nil {
				writeValidationError(w, map[string]string{"start_date": err.Error()})
				return
			}
		}

		end := start.AddDate(0, 0, 6)
		if q := r.URL.Query().Get("end_date"); q != "" {
			end, err = schedule.ParseDate(q)
			if err != nil {
				writeValidationError(w, map[string]string{"end_date": err.Error()})
				return
			}
		}
		if end.Before(start) {
			writeValidationError(w, map[string]string{"end_date": "end_date must not be before start_date"})
			return
		}

		slots, err := svc.GetSchedule(r.Context(), staffID, start, end)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ScheduleResponse{
			StaffID:   staffID,
			StartDate: schedule.FormatDate(start),
			EndDate:   schedule.FormatDate(end),
			TimeSlots: newTimeSlotResponses(slots),
		})
	}
}

func getTimeSlotsForDateHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		date, err := schedule.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			writeValidationError(w, map[string]string{"date": err.Error()})
			return
		}

		slots, err := svc.ListForDate(r.Context(), staffID, date)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newTimeSlotResponses(slots))
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	var conflict *schedule.ConflictError

	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusBadRequest, slotConflictBody{
			Error:           "slot_conflict",
			Details:         "time slot conflicts with an existing time slot",
			ConflictingSlot: newTimeSlotResponse(conflict.Existing),
		})
	case errors.Is(err, staff.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, schedule.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, schedule.ErrStaffNotVerified):
		writeError(w, http.StatusBadRequest, "staff_not_verified", err.Error())
	case errors.Is(err, schedule.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "invalid_interval", err.Error())
	case errors.Is(err, schedule.ErrScheduleBusy):
		writeError(w, http.StatusConflict, "schedule_busy", "schedule is currently being modified, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
