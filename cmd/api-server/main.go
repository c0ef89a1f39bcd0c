package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/societyhq/member-staff-service/internal/api"
	"github.com/societyhq/member-staff-service/internal/attendance"
	"github.com/societyhq/member-staff-service/internal/booking"
	"github.com/societyhq/member-staff-service/internal/config"
	"github.com/societyhq/member-staff-service/internal/db"
	"github.com/societyhq/member-staff-service/internal/rating"
	redisclient "github.com/societyhq/member-staff-service/internal/redis"
	"github.com/societyhq/member-staff-service/internal/report"
	"github.com/societyhq/member-staff-service/internal/schedule"
	"github.com/societyhq/member-staff-service/internal/staff"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	staffRepo := staff.NewPgRepository(pgPool)
	staffSvc := staff.NewService(staffRepo, cfg.OTPTTL)

	locker := redisclient.NewRedisScheduleLocker(rdb, cfg.LockTTL)
	scheduleSvc := schedule.NewService(schedule.NewPgRepository(pgPool), staffRepo, locker)

	bookingSvc := booking.NewService(booking.NewPgRepository(pgPool), staffRepo)
	ratingSvc := rating.NewService(rating.NewPgRepository(pgPool), staffRepo)
	reportSvc := report.NewService(report.NewPgRepository(pgPool))

	publisher := redisclient.NewRedisPublisher(rdb)
	attendanceSvc := attendance.NewService(attendance.NewPgRepository(pgPool), publisher)

	router := api.NewRouter(api.RouterConfig{
		Schedules:   scheduleSvc,
		Bookings:    bookingSvc,
		Ratings:     ratingSvc,
		Reports:     reportSvc,
		Staff:       staffSvc,
		Attendances: attendanceSvc,
		PgPool:      pgPool,
		Redis:       rdb,
		JWTSecret:   cfg.JWTSecret,
		Env:         cfg.Env,
		Version:     version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}
