package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/booking"
	"github.com/societyhq/member-staff-service/internal/schedule"
	"github.com/societyhq/member-staff-service/internal/staff"
)

func createBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fieldErrors := make(map[string]string)

		staffID, err := uuid.Parse(req.StaffID)
		if err != nil {
			fieldErrors["staff_id"] = "staff_id must be a valid UUID"
		}
		memberID, err := uuid.Parse(req.MemberID)
		if err != nil {
			fieldErrors["member_id"] = "member_id must be a valid UUID"
		}
		if req.UnitID == 0 {
			fieldErrors["unit_id"] = "unit_id is required"
		}
		if req.CompanyID == 0 {
			fieldErrors["company_id"] = "company_id is required"
		}

		startDate, err := schedule.ParseDate(req.StartDate)
		if err != nil {
			fieldErrors["start_date"] = err.Error()
		}
		endDate, err := schedule.ParseDate(req.EndDate)
		if err != nil {
			fieldErrors["end_date"] = err.Error()
		}
		if len(req.SlotHours) == 0 {
			fieldErrors["slot_hours"] = "slot_hours is required"
		}

		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		ident := GetIdentity(r.Context())
		if !ident.IsMember(memberID) {
			writeError(w, http.StatusForbidden, "forbidden", "you can only create bookings for your own account")
			return
		}

		created, err := svc.Create(r.Context(), booking.CreateRequest{
			StaffID:    staffID,
			MemberID:   memberID,
			UnitID:     req.UnitID,
			CompanyID:  req.CompanyID,
			StartDate:  startDate,
			EndDate:    endDate,
			RepeatType: booking.RepeatType(req.RepeatType),
			SlotHours:  req.SlotHours,
			Notes:      req.Notes,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "success",
			"booking_id": created.ID,
		})
	}
}

func getBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "bookingId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newBookingDetailResponse(*detail))
	}
}

func rescheduleBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "bookingId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		var req RescheduleBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		newDate, err := schedule.ParseDate(req.NewDate)
		if err != nil {
			writeValidationError(w, map[string]string{"new_date": err.Error()})
			return
		}
		if len(req.NewHours) == 0 {
			writeValidationError(w, map[string]string{"new_hours": "new_hours is required"})
			return
		}

		if _, err := svc.Reschedule(r.Context(), id, newDate, req.NewHours); err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "rescheduled"})
	}
}

func cancelBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "bookingId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		if err := svc.Cancel(r.Context(), id); err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func listBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID := GetIdentity(r.Context()).MemberID
		if q := r.URL.Query().Get("member_id"); q != "" {
			id, err := uuid.Parse(q)
			if err != nil {
				writeValidationError(w, map[string]string{"member_id": "member_id must be a valid UUID"})
				return
			}
			memberID = id
		}

		rows, err := svc.ListByMember(r.Context(), memberID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		if rows == nil {
			rows = []booking.MemberBookingRow{}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, staff.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidRepeatType),
		errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrInvalidHour),
		errors.Is(err, booking.ErrNoSlotHours):
		writeValidationError(w, map[string]string{"request": err.Error()})
	default:
		// Multi-row write failed and rolled back
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
