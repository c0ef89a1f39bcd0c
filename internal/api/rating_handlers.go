package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/rating"
	"github.com/societyhq/member-staff-service/internal/staff"
)

func parseStaffType(s string) (staff.Scope, bool) {
	scope := staff.Scope(s)
	return scope, scope.Valid()
}

func submitRatingHandler(svc *rating.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRatingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fieldErrors := make(map[string]string)

		memberID, err := uuid.Parse(req.MemberID)
		if err != nil {
			fieldErrors["member_id"] = "member_id must be a valid UUID"
		}
		staffID, err := uuid.Parse(req.StaffID)
		if err != nil {
			fieldErrors["staff_id"] = "staff_id must be a valid UUID"
		}
		staffType, ok := parseStaffType(req.StaffType)
		if !ok {
			fieldErrors["staff_type"] = "staff_type must be society or member"
		}
		if req.Rating < 1 || req.Rating > 5 {
			fieldErrors["rating"] = "rating must be between 1 and 5"
		}
		if req.Feedback != nil && len(*req.Feedback) > 1000 {
			fieldErrors["feedback"] = "feedback must be at most 1000 characters"
		}

		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		ident := GetIdentity(r.Context())
		if !ident.IsMember(memberID) {
			writeError(w, http.StatusForbidden, "forbidden", "you can only submit ratings for your own account")
			return
		}

		created, err := svc.Submit(r.Context(), rating.SubmitRequest{
			MemberID: memberID,
			Staff:    rating.StaffRef{Type: staffType, ID: staffID},
			Rating:   req.Rating,
			Feedback: req.Feedback,
		})
		if err != nil {
			handleRatingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newRatingResponse(*created))
	}
}

func newRatingResponse(r rating.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		MemberID:  r.MemberID,
		StaffID:   r.StaffID,
		StaffType: string(r.StaffType),
		Rating:    r.Rating,
		Feedback:  r.Feedback,
		CreatedAt: r.CreatedAt,
	}
}

func ratingSummaryHandler(svc *rating.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		staffType, ok := parseStaffType(r.URL.Query().Get("staff_type"))
		if !ok {
			writeValidationError(w, map[string]string{"staff_type": "staff_type must be society or member"})
			return
		}

		summary, err := svc.Summary(r.Context(), rating.StaffRef{Type: staffType, ID: staffID})
		if err != nil {
			handleRatingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"staff_id":            summary.Staff.ID,
			"staff_type":          string(summary.Staff.Type),
			"average_rating":      summary.AverageRating,
			"total_ratings":       summary.TotalRatings,
			"rating_distribution": summary.Distribution,
			"recent_reviews":      summary.RecentReviews,
		})
	}
}

func ratingFiltersFromQuery(r *http.Request) (rating.AggregateFilters, map[string]string) {
	fieldErrors := make(map[string]string)
	var f rating.AggregateFilters

	if q := r.URL.Query().Get("staff_type"); q != "" {
		scope, ok := parseStaffType(q)
		if !ok {
			fieldErrors["staff_type"] = "staff_type must be society or member"
		} else {
			f.StaffType = &scope
		}
	}
	if q := r.URL.Query().Get("min_rating"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v < 1 || v > 5 {
			fieldErrors["min_rating"] = "min_rating must be between 1 and 5"
		} else {
			f.MinAvg = &v
		}
	}
	if q := r.URL.Query().Get("max_rating"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v < 1 || v > 5 {
			fieldErrors["max_rating"] = "max_rating must be between 1 and 5"
		} else {
			f.MaxAvg = &v
		}
	}
	f.Search = r.URL.Query().Get("search")
	f.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	f.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if len(fieldErrors) > 0 {
		return rating.AggregateFilters{}, fieldErrors
	}
	return f, nil
}

func adminRatingsHandler(svc *rating.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, fieldErrors := ratingFiltersFromQuery(r)
		if fieldErrors != nil {
			writeValidationError(w, fieldErrors)
			return
		}

		rows, err := svc.AdminAggregate(r.Context(), f)
		if err != nil {
			handleRatingError(w, err)
			return
		}

		type aggregateBody struct {
			StaffID       uuid.UUID `json:"staff_id"`
			StaffType     string    `json:"staff_type"`
			AverageRating float64   `json:"average_rating"`
			TotalRatings  int       `json:"total_ratings"`
			StaffName     string    `json:"staff_name"`
			Designation   *string   `json:"staff_category"`
			PhotoURL      *string   `json:"staff_photo_url"`
		}

		out := make([]aggregateBody, 0, len(rows))
		for _, row := range rows {
			out = append(out, aggregateBody{
				StaffID:       row.StaffID,
				StaffType:     string(row.StaffType),
				AverageRating: row.AverageRating,
				TotalRatings:  row.TotalRatings,
				StaffName:     row.StaffName,
				Designation:   row.Designation,
				PhotoURL:      row.PhotoURL,
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"total":   len(out),
			"ratings": out,
		})
	}
}

func listRatingsHandler(svc *rating.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, fieldErrors := listFiltersFromQuery(r)
		if fieldErrors != nil {
			writeValidationError(w, fieldErrors)
			return
		}
		if f.Page < 1 {
			f.Page = 1
		}
		if f.Limit <= 0 {
			f.Limit = 10
		}
		if f.Limit > 100 {
			f.Limit = 100
		}

		rows, total, err := svc.List(r.Context(), f)
		if err != nil {
			handleRatingError(w, err)
			return
		}

		type ratingRowBody struct {
			RatingResponse
			MemberName string `json:"member_name"`
		}

		out := make([]ratingRowBody, 0, len(rows))
		for _, row := range rows {
			out = append(out, ratingRowBody{
				RatingResponse: newRatingResponse(row.Rating),
				MemberName:     row.MemberName,
			})
		}

		writeJSON(w, http.StatusOK, PagedResponse{
			Total:   total,
			Page:    f.Page,
			PerPage: f.Limit,
			Data:    out,
		})
	}
}

func listFiltersFromQuery(r *http.Request) (rating.ListFilters, map[string]string) {
	fieldErrors := make(map[string]string)
	var f rating.ListFilters

	if q := r.URL.Query().Get("staff_type"); q != "" {
		scope, ok := parseStaffType(q)
		if !ok {
			fieldErrors["staff_type"] = "staff_type must be society or member"
		} else {
			f.StaffType = &scope
		}
	}
	if q := r.URL.Query().Get("min_rating"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > 5 {
			fieldErrors["min_rating"] = "min_rating must be between 1 and 5"
		} else {
			f.MinRating = &v
		}
	}
	if q := r.URL.Query().Get("max_rating"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > 5 {
			fieldErrors["max_rating"] = "max_rating must be between 1 and 5"
		} else {
			f.MaxRating = &v
		}
	}
	f.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	f.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if len(fieldErrors) > 0 {
		return rating.ListFilters{}, fieldErrors
	}
	return f, nil
}

func exportRatingsHandler(svc *rating.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, fieldErrors := listFiltersFromQuery(r)
		if fieldErrors != nil {
			writeValidationError(w, fieldErrors)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="staff_ratings.csv"`)
		w.Header().Set("Cache-Control", "must-revalidate")

		if err := svc.ExportCSV(r.Context(), w, f); err != nil {
			// Headers are already out, so the truncated body is all the
			// client sees.
			log.Printf("[%s] rating export failed: %v", GetRequestID(r.Context()), err)
		}
	}
}

func handleRatingError(w http.ResponseWriter, err error) {
	var alreadyRated *rating.AlreadyRatedError

	switch {
	case errors.As(err, &alreadyRated):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":           "already_rated",
			"details":         alreadyRated.Error(),
			"existing_rating": newRatingResponse(alreadyRated.Existing),
		})
	case errors.Is(err, rating.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, rating.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", err.Error())
	case errors.Is(err, rating.ErrNotAssigned):
		writeError(w, http.StatusForbidden, "not_assigned", "you can only rate staff assigned to your unit")
	case errors.Is(err, rating.ErrInvalidRating):
		writeValidationError(w, map[string]string{"rating": err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
