package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/societyhq/member-staff-service/internal/attendance"
	"github.com/societyhq/member-staff-service/internal/auth"
	"github.com/societyhq/member-staff-service/internal/booking"
	"github.com/societyhq/member-staff-service/internal/rating"
	"github.com/societyhq/member-staff-service/internal/report"
	"github.com/societyhq/member-staff-service/internal/schedule"
	"github.com/societyhq/member-staff-service/internal/staff"
)

type RouterConfig struct {
	Schedules   *schedule.Service
	Bookings    *booking.Service
	Ratings     *rating.Service
	Reports     *report.Service
	Staff       *staff.Service
	Attendances *attendance.Service
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	JWTSecret   string
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Everything below requires a valid token.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		// Staff onboarding and profile
		r.Post("/staff/check-mobile", checkMobileHandler(cfg.Staff))
		r.Post("/staff/send-otp", sendOTPHandler(cfg.Staff))
		r.Post("/staff/verify-otp", verifyOTPHandler(cfg.Staff))
		r.Post("/staff", createStaffHandler(cfg.Staff))
		r.Get("/staff/{staffId}", getStaffHandler(cfg.Staff))
		r.Put("/staff/{staffId}", updateStaffHandler(cfg.Staff))
		r.Delete("/staff/{staffId}", deleteStaffHandler(cfg.Staff))
		r.Put("/staff/{staffId}/verify", verifyStaffHandler(cfg.Staff))

		// Schedules
		r.Post("/staff/{staffId}/schedule/slots", addTimeSlotHandler(cfg.Schedules))
		r.Post("/staff/{staffId}/schedule/slots/bulk", bulkAddTimeSlotsHandler(cfg.Schedules))
		r.Put("/staff/{staffId}/schedule/slots/{slotId}", updateTimeSlotHandler(cfg.Schedules))
		r.Delete("/staff/{staffId}/schedule/slots/{slotId}", removeTimeSlotHandler(cfg.Schedules))
		r.Get("/staff/{staffId}/schedule", getScheduleHandler(cfg.Schedules))
		r.Get("/staff/{staffId}/schedule/date/{date}", getTimeSlotsForDateHandler(cfg.Schedules))

		// Ratings
		r.Post("/staff-ratings", submitRatingHandler(cfg.Ratings))
		r.Get("/staff/{staffId}/ratings", ratingSummaryHandler(cfg.Ratings))

		// Member-scoped routes need the member's unit and society context.
		r.Group(func(r chi.Router) {
			r.Use(RequireMemberContext)

			r.Get("/member-staff/booking", listBookingsHandler(cfg.Bookings))
			r.Post("/member-staff/booking", createBookingHandler(cfg.Bookings))
			r.Get("/member-staff/booking/{bookingId}", getBookingHandler(cfg.Bookings))
			r.Put("/member-staff/booking/{bookingId}", rescheduleBookingHandler(cfg.Bookings))
			r.Delete("/member-staff/booking/{bookingId}", cancelBookingHandler(cfg.Bookings))

			r.Get("/member-staff/attendance", attendanceMonthHandler(cfg.Attendances))
			r.Post("/member-staff/attendance", recordAttendanceHandler(cfg.Attendances))
		})

		// Committee-only routes
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleCommittee))

			r.Get("/committee/dues-report", duesReportHandler(cfg.Reports))
			r.Get("/committee/dues-report/chart", duesChartHandler(cfg.Reports))

			r.Get("/admin/attendance", adminAttendanceHandler(cfg.Attendances))
			r.Get("/admin/attendance/summary", adminAttendanceSummaryHandler(cfg.Attendances))
			r.Put("/admin/attendance", updateAttendanceHandler(cfg.Attendances))

			r.Get("/admin/staff-ratings", adminRatingsHandler(cfg.Ratings))
			r.Get("/admin/staff-ratings/list", listRatingsHandler(cfg.Ratings))
			r.Get("/admin/staff-ratings/export", exportRatingsHandler(cfg.Ratings))
		})
	})

	return r
}
