package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/societyhq/member-staff-service/internal/config"
	"github.com/societyhq/member-staff-service/internal/db"
	"github.com/societyhq/member-staff-service/internal/staff"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("otp-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running otp worker in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

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

	svc := staff.NewService(staff.NewPgRepository(pgPool), cfg.OTPTTL)

	// Run once at startup
	runOnce(rootCtx, svc)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping otp worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc)
		}
	}
}

func runOnce(ctx context.Context, svc *staff.Service) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	if err := svc.PurgeExpiredOTPs(runCtx); err != nil {
		log.Printf("otp purge error: %v", err)
		return
	}
	log.Printf("otp purge complete in %s", time.Since(start))
}
