package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/attendance"
	"github.com/societyhq/member-staff-service/internal/booking"
	"github.com/societyhq/member-staff-service/internal/schedule"
	"github.com/societyhq/member-staff-service/internal/staff"
)

// Schedule

type TimeSlotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  *bool  `json:"is_booked,omitempty"`
}

type BulkTimeSlotsRequest struct {
	TimeSlots []TimeSlotRequest `json:"time_slots"`
}

type UpdateTimeSlotRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsBooked  *bool   `json:"is_booked,omitempty"`
}

type TimeSlotResponse struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uuid.UUID `json:"staff_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
}

func newTimeSlotResponse(s schedule.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		ID:        s.ID,
		StaffID:   s.StaffID,
		Date:      schedule.FormatDate(s.Date),
		StartTime: schedule.FormatClock(s.StartMinutes),
		EndTime:   schedule.FormatClock(s.EndMinutes),
		IsBooked:  s.IsBooked,
	}
}

func newTimeSlotResponses(slots []schedule.TimeSlot) []TimeSlotResponse {
	out := make([]TimeSlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, newTimeSlotResponse(s))
	}
	return out
}

type ProposedSlotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
}

func newProposedSlotResponse(n schedule.NewSlot) ProposedSlotResponse {
	return ProposedSlotResponse{
		Date:      schedule.FormatDate(n.Date),
		StartTime: schedule.FormatClock(n.StartMinutes),
		EndTime:   schedule.FormatClock(n.EndMinutes),
		IsBooked:  n.IsBooked,
	}
}

type SlotConflictResponse struct {
	NewSlot      ProposedSlotResponse `json:"new_slot"`
	ExistingSlot TimeSlotResponse     `json:"existing_slot"`
}

type BulkTimeSlotsResponse struct {
	AddedTimeSlots       []TimeSlotResponse     `json:"added_time_slots"`
	ConflictingTimeSlots []SlotConflictResponse `json:"conflicting_time_slots"`
}

type ScheduleResponse struct {
	StaffID   uuid.UUID          `json:"staff_id"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	TimeSlots []TimeSlotResponse `json:"time_slots"`
}

// Booking

type CreateBookingRequest struct {
	StaffID    string  `json:"staff_id"`
	MemberID   string  `json:"member_id"`
	UnitID     int64   `json:"unit_id"`
	CompanyID  int64   `json:"company_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	RepeatType string  `json:"repeat_type"`
	SlotHours  []int   `json:"slot_hours"`
	Notes      *string `json:"notes,omitempty"`
}

type RescheduleBookingRequest struct {
	NewDate  string `json:"new_date"`
	NewHours []int  `json:"new_hours"`
}

type BookingSlotResponse struct {
	Date        string `json:"date"`
	Hour        int    `json:"hour"`
	IsConfirmed bool   `json:"is_confirmed"`
}

type BookingDetailResponse struct {
	ID         uuid.UUID             `json:"id"`
	StaffID    uuid.UUID             `json:"staff_id"`
	MemberID   uuid.UUID             `json:"member_id"`
	UnitID     int64                 `json:"unit_id"`
	CompanyID  int64                 `json:"company_id"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	RepeatType string                `json:"repeat_type"`
	Notes      *string               `json:"notes"`
	Status     string                `json:"status"`
	Slots      []BookingSlotResponse `json:"slots"`
}

func newBookingDetailResponse(d booking.Detail) BookingDetailResponse {
	slots := make([]BookingSlotResponse, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, BookingSlotResponse{
			Date:        schedule.FormatDate(s.Date),
			Hour:        s.Hour,
			IsConfirmed: s.IsConfirmed,
		})
	}

	b := d.Booking
	return BookingDetailResponse{
		ID:         b.ID,
		StaffID:    b.StaffID,
		MemberID:   b.MemberID,
		UnitID:     b.UnitID,
		CompanyID:  b.CompanyID,
		StartDate:  schedule.FormatDate(b.StartDate),
		EndDate:    schedule.FormatDate(b.EndDate),
		RepeatType: string(b.RepeatType),
		Notes:      b.Notes,
		Status:     string(b.Status),
		Slots:      slots,
	}
}

// Rating

type SubmitRatingRequest struct {
	MemberID  string  `json:"member_id"`
	StaffID   string  `json:"staff_id"`
	StaffType string  `json:"staff_type"`
	Rating    int     `json:"rating"`
	Feedback  *string `json:"feedback,omitempty"`
}

type RatingResponse struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	StaffID   uuid.UUID `json:"staff_id"`
	StaffType string    `json:"staff_type"`
	Rating    int       `json:"rating"`
	Feedback  *string   `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// Staff

type CheckMobileRequest struct {
	Mobile string `json:"mobile"`
}

type SendOTPRequest struct {
	Mobile string `json:"mobile"`
}

type VerifyOTPRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

type CreateStaffRequest struct {
	Name        string  `json:"name"`
	Mobile      string  `json:"mobile"`
	Email       *string `json:"email,omitempty"`
	StaffScope  string  `json:"staff_scope"`
	Department  *string `json:"department,omitempty"`
	Designation *string `json:"designation,omitempty"`
	SocietyID   *int64  `json:"society_id,omitempty"`
	UnitID      *int64  `json:"unit_id,omitempty"`
	CompanyID   int64   `json:"company_id"`
}

type UpdateStaffRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Department  *string `json:"department,omitempty"`
	Designation *string `json:"designation,omitempty"`
}

type VerifyStaffRequest struct {
	AadhaarNumber      string  `json:"aadhaar_number"`
	ResidentialAddress string  `json:"residential_address"`
	NextOfKinName      string  `json:"next_of_kin_name"`
	NextOfKinMobile    string  `json:"next_of_kin_mobile"`
	PhotoURL           *string `json:"photo_url,omitempty"`
}

type StaffResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Mobile      string     `json:"mobile"`
	Email       *string    `json:"email"`
	StaffScope  string     `json:"staff_scope"`
	Department  *string    `json:"department"`
	Designation *string    `json:"designation"`
	SocietyID   *int64     `json:"society_id"`
	UnitID      *int64     `json:"unit_id"`
	CompanyID   int64      `json:"company_id"`
	IsVerified  bool       `json:"is_verified"`
	PhotoURL    *string    `json:"photo_url"`
	VerifiedAt  *time.Time `json:"verified_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newStaffResponse(st staff.Staff) StaffResponse {
	return StaffResponse{
		ID:          st.ID,
		Name:        st.Name,
		Mobile:      st.Mobile,
		Email:       st.Email,
		StaffScope:  string(st.Scope),
		Department:  st.Department,
		Designation: st.Designation,
		SocietyID:   st.SocietyID,
		UnitID:      st.UnitID,
		CompanyID:   st.CompanyID,
		IsVerified:  st.IsVerified,
		PhotoURL:    st.PhotoURL,
		VerifiedAt:  st.VerifiedAt,
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
}

// Attendance

type AttendanceEntryRequest struct {
	StaffID  string  `json:"staff_id"`
	Status   string  `json:"status"`
	Note     *string `json:"note,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

type RecordAttendanceRequest struct {
	Date    string                   `json:"date"`
	Entries []AttendanceEntryRequest `json:"entries"`
}

type UpdateAttendanceRequest struct {
	AttendanceID int64   `json:"attendance_id"`
	Status       string  `json:"status"`
	Note         *string `json:"note,omitempty"`
}

type AdminAttendanceRecord struct {
	ID            int64     `json:"id"`
	StaffID       uuid.UUID `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
	StaffCategory string    `json:"staff_category"`
	StaffPhoto    *string   `json:"staff_photo"`
	Status        string    `json:"status"`
	Note          *string   `json:"note"`
	PhotoURL      *string   `json:"photo_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newAdminAttendanceRecord(a attendance.AttendanceWithStaff) AdminAttendanceRecord {
	category := "Staff"
	if a.StaffDesignation != nil {
		category = *a.StaffDesignation
	}
	return AdminAttendanceRecord{
		ID:            a.ID,
		StaffID:       a.StaffID,
		StaffName:     a.StaffName,
		StaffCategory: category,
		StaffPhoto:    a.StaffPhotoURL,
		Status:        string(a.Status),
		Note:          a.Note,
		PhotoURL:      a.PhotoURL,
		UpdatedAt:     a.UpdatedAt,
	}
}

// Pagination

type PagedResponse struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Data    any `json:"data"`
}
