package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/staff"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{12}$`)

func checkMobileHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckMobileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if !mobilePattern.MatchString(req.Mobile) {
			writeValidationError(w, map[string]string{"mobile": "mobile must be a 12 digit number including country code"})
			return
		}

		check, err := svc.CheckMobile(r.Context(), req.Mobile)
		if err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"exists":   check.Exists,
			"verified": check.Verified,
			"staff_id": check.StaffID,
		})
	}
}

func sendOTPHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if !mobilePattern.MatchString(req.Mobile) {
			writeValidationError(w, map[string]string{"mobile": "mobile must be a 12 digit number including country code"})
			return
		}

		if err := svc.SendOTP(r.Context(), req.Mobile); err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "otp_sent"})
	}
}

func verifyOTPHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fieldErrors := make(map[string]string)
		if !mobilePattern.MatchString(req.Mobile) {
			fieldErrors["mobile"] = "mobile must be a 12 digit number including country code"
		}
		if len(req.OTP) != 6 {
			fieldErrors["otp"] = "otp must be a 6 digit code"
		}
		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		if err := svc.VerifyOTP(r.Context(), req.Mobile, req.OTP); err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
	}
}

func createStaffHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fieldErrors := make(map[string]string)
		if req.Name == "" {
			fieldErrors["name"] = "name is required"
		}
		if !mobilePattern.MatchString(req.Mobile) {
			fieldErrors["mobile"] = "mobile must be a 12 digit number including country code"
		}
		scope := staff.Scope(req.StaffScope)
		if !scope.Valid() {
			fieldErrors["staff_scope"] = "staff_scope must be society or member"
		}
		if req.CompanyID == 0 {
			fieldErrors["company_id"] = "company_id is required"
		}
		if scope == staff.ScopeMember && req.UnitID == nil {
			fieldErrors["unit_id"] = "unit_id is required for member staff"
		}
		if scope == staff.ScopeSociety && req.SocietyID == nil {
			fieldErrors["society_id"] = "society_id is required for society staff"
		}
		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		ident := GetIdentity(r.Context())

		created, err := svc.CreateStaff(r.Context(), staff.NewStaff{
			Name:        req.Name,
			Mobile:      req.Mobile,
			Email:       req.Email,
			Scope:       scope,
			Department:  req.Department,
			Designation: req.Designation,
			SocietyID:   req.SocietyID,
			UnitID:      req.UnitID,
			CompanyID:   req.CompanyID,
			CreatedBy:   ident.MemberID,
		})
		if err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newStaffResponse(*created))
	}
}

func getStaffHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		s, err := svc.GetStaff(r.Context(), staffID)
		if err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newStaffResponse(*s))
	}
}

func updateStaffHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		var req UpdateStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name != nil && *req.Name == "" {
			writeValidationError(w, map[string]string{"name": "name must not be empty"})
			return
		}

		ident := GetIdentity(r.Context())

		updated, err := svc.UpdateStaff(r.Context(), staffID, staff.StaffUpdate{
			Name:        req.Name,
			Email:       req.Email,
			Department:  req.Department,
			Designation: req.Designation,
			UpdatedBy:   ident.MemberID,
		})
		if err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newStaffResponse(*updated))
	}
}

func deleteStaffHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		if err := svc.DeleteStaff(r.Context(), staffID); err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func verifyStaffHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := uuid.Parse(chi.URLParam(r, "staffId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staffId must be a valid UUID")
			return
		}

		var req VerifyStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fieldErrors := make(map[string]string)
		if len(req.AadhaarNumber) != 12 {
			fieldErrors["aadhaar_number"] = "aadhaar_number must be 12 digits"
		}
		if req.ResidentialAddress == "" {
			fieldErrors["residential_address"] = "residential_address is required"
		}
		if req.NextOfKinName == "" {
			fieldErrors["next_of_kin_name"] = "next_of_kin_name is required"
		}
		if !mobilePattern.MatchString(req.NextOfKinMobile) {
			fieldErrors["next_of_kin_mobile"] = "next_of_kin_mobile must be a 12 digit number including country code"
		}
		if len(fieldErrors) > 0 {
			writeValidationError(w, fieldErrors)
			return
		}

		ident := GetIdentity(r.Context())

		verified, err := svc.VerifyStaff(r.Context(), staffID, staff.Verification{
			AadhaarNumber:      req.AadhaarNumber,
			ResidentialAddress: req.ResidentialAddress,
			NextOfKinName:      req.NextOfKinName,
			NextOfKinMobile:    req.NextOfKinMobile,
			PhotoURL:           req.PhotoURL,
			VerifiedByMemberID: ident.MemberID,
		})
		if err != nil {
			handleStaffError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newStaffResponse(*verified))
	}
}

func handleStaffError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, staff.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, staff.ErrMobileTaken):
		writeError(w, http.StatusConflict, "mobile_taken", err.Error())
	case errors.Is(err, staff.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, "already_verified", err.Error())
	case errors.Is(err, staff.ErrOTPInvalid):
		writeError(w, http.StatusBadRequest, "otp_invalid", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
