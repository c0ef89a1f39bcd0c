package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/societyhq/member-staff-service/internal/report"
)

func duesFiltersFromQuery(r *http.Request) (report.DuesFilters, map[string]string) {
	fieldErrors := make(map[string]string)
	q := r.URL.Query()

	f := report.DuesFilters{
		Month:    q.Get("month"),
		Building: q.Get("building"),
		Wing:     q.Get("wing"),
		Search:   q.Get("search"),
	}

	if v := q.Get("floor"); v != "" {
		floor, err := strconv.Atoi(v)
		if err != nil {
			fieldErrors["floor"] = "floor must be an integer"
		} else {
			f.Floor = &floor
		}
	}
	if v := q.Get("min_due"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d < 0 {
			fieldErrors["min_due"] = "min_due must be a non-negative number"
		} else {
			f.MinDue = &d
		}
	}
	if v := q.Get("max_due"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d < 0 {
			fieldErrors["max_due"] = "max_due must be a non-negative number"
		} else {
			f.MaxDue = &d
		}
	}
	if v := q.Get("status"); v != "" {
		status := report.Status(v)
		if status != report.StatusUnpaid && status != report.StatusPartial && status != report.StatusOverdue {
			fieldErrors["status"] = "status must be unpaid, partial or overdue"
		} else {
			f.Status = status
		}
	}

	f.Page, _ = strconv.Atoi(q.Get("page"))
	if f.Page < 1 {
		f.Page = 1
	}
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	if len(fieldErrors) > 0 {
		return report.DuesFilters{}, fieldErrors
	}
	return f, nil
}

func duesReportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, fieldErrors := duesFiltersFromQuery(r)
		if fieldErrors != nil {
			writeValidationError(w, fieldErrors)
			return
		}
		if f.PerPage <= 0 {
			f.PerPage = 15
		}
		if f.PerPage > 100 {
			f.PerPage = 100
		}

		rows, total, err := svc.Dues(r.Context(), f)
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, PagedResponse{
			Total:   total,
			Page:    f.Page,
			PerPage: f.PerPage,
			Data:    rows,
		})
	}
}

func duesChartHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := r.URL.Query().Get("month")
		if month == "" {
			writeValidationError(w, map[string]string{"month": "month is required in YYYY-MM format"})
			return
		}
		dim := report.Dimension(r.URL.Query().Get("group_by"))
		if dim == "" {
			dim = report.DimensionBuilding
		}

		buckets, err := svc.ChartSummary(r.Context(), month, dim)
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"month":    month,
			"group_by": string(dim),
			"buckets":  buckets,
		})
	}
}

func handleReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidMonth):
		writeValidationError(w, map[string]string{"month": "month must be in YYYY-MM format"})
	case errors.Is(err, report.ErrInvalidDimension):
		writeValidationError(w, map[string]string{"group_by": "group_by must be building, floor or member"})
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
