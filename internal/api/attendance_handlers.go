package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/attendance"
	"github.com/societyhq/member-staff-service/internal/schedule"
)

func recordAttendanceHandler(svc *attendance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecordAttendanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fieldErrors := make(map[string]string)

		date, err := schedule.ParseDate(req.Date)
		if err != nil {
			fieldErrors["date"] = "date must be in YYYY-MM-DD format"
		}
		if len(req.Entries) == 0 {
			fieldErrors["entries"] = "at least one entry is required"
		}

		entries := make([]attendance.Entry, 0, len(req.Entries))
		for _, e := range req.Entries {
			staffID, err := uuid.Parse(e.StaffID)
			if err != nil {
				fieldErrors["entries.staff_id"] = "staff_id must be a valid UUID"
				continue
			}
			status := attendance.Status(e.Status)
			if !status.Valid() {
				fieldErrors["entries.status"] = "status must be present or absent"
				continue
			}
			entries = append(entries, attendance.Entry{
				StaffID:  staffID,
				Status:   status,
				Note:     e.Note,
				PhotoURL: e.PhotoURL,
			})
		}

		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		ident := GetIdentity(r.Context())

		err = svc.Record(r.Context(), attendance.RecordRequest{
			MemberID: ident.MemberID,
			UnitID:   ident.UnitID,
			Date:     date,
			Entries:  entries,
		})
		if err != nil {
			handleAttendanceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": "recorded",
			"count":  len(entries),
		})
	}
}

func attendanceMonthHandler(svc *attendance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := r.URL.Query().Get("month")
		if month == "" {
			writeValidationError(w, map[string]string{"month": "month is required in YYYY-MM format"})
			return
		}

		ident := GetIdentity(r.Context())

		byDate, err := svc.MonthView(r.Context(), ident.MemberID, month)
		if err != nil {
			handleAttendanceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"month":      month,
			"attendance": byDate,
		})
	}
}

func adminAttendanceFiltersFromQuery(r *http.Request) (attendance.AdminFilters, map[string]string) {
	fieldErrors := make(map[string]string)
	var f attendance.AdminFilters

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		fieldErrors["date"] = "date is required in YYYY-MM-DD format"
	} else {
		date, err := schedule.ParseDate(dateStr)
		if err != nil {
			fieldErrors["date"] = "date must be in YYYY-MM-DD format"
		} else {
			f.Date = date
		}
	}

	if q := r.URL.Query().Get("status"); q != "" {
		status := attendance.Status(q)
		if !status.Valid() {
			fieldErrors["status"] = "status must be present or absent"
		} else {
			f.Status = &status
		}
	}
	f.Search = r.URL.Query().Get("search")
	f.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	f.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if len(fieldErrors) > 0 {
		return attendance.AdminFilters{}, fieldErrors
	}
	return f, nil
}

func adminAttendanceHandler(svc *attendance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, fieldErrors := adminAttendanceFiltersFromQuery(r)
		if fieldErrors != nil {
			writeValidationError(w, fieldErrors)
			return
		}

		if f.Page < 1 {
			f.Page = 1
		}
		if f.Limit < 1 {
			f.Limit = 10
		}
		if f.Limit > 100 {
			f.Limit = 100
		}

		records, total, err := svc.DayLog(r.Context(), f)
		if err != nil {
			handleAttendanceError(w, err)
			return
		}

		out := make([]AdminAttendanceRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, newAdminAttendanceRecord(rec))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"records":     out,
			"total":       total,
			"page":        f.Page,
			"limit":       f.Limit,
			"total_pages": (total + f.Limit - 1) / f.Limit,
		})
	}
}

func adminAttendanceSummaryHandler(svc *attendance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := schedule.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			writeValidationError(w, map[string]string{"date": "date is required in YYYY-MM-DD format"})
			return
		}

		summary, err := svc.DaySummary(r.Context(), date)
		if err != nil {
			handleAttendanceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

func updateAttendanceHandler(svc *attendance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateAttendanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fieldErrors := make(map[string]string)
		if req.AttendanceID <= 0 {
			fieldErrors["attendance_id"] = "attendance_id is required"
		}
		status := attendance.Status(req.Status)
		if !status.Valid() {
			fieldErrors["status"] = "status must be present or absent"
		}
		if req.Note != nil && len(*req.Note) > 500 {
			fieldErrors["note"] = "note must be at most 500 characters"
		}
		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		updated, err := svc.Correct(r.Context(), req.AttendanceID, status, req.Note)
		if err != nil {
			handleAttendanceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "updated",
			"attendance": newAdminAttendanceRecord(*updated),
		})
	}
}

func handleAttendanceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		writeError(w, http.StatusNotFound, "attendance_not_found", err.Error())
	case errors.Is(err, attendance.ErrInvalidStatus):
		writeValidationError(w, map[string]string{"entries.status": err.Error()})
	case errors.Is(err, attendance.ErrInvalidMonth):
		writeValidationError(w, map[string]string{"month": err.Error()})
	case errors.Is(err, attendance.ErrNoEntries):
		writeValidationError(w, map[string]string{"entries": err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
