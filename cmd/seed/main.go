package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/societyhq/member-staff-service/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	s := &seeder{pool: pool}

	if err := s.seedBuildingsAndUnits(context.Background(), 4, 40); err != nil {
		log.Fatalf("seed buildings: %v", err)
	}
	if err := s.seedMembers(context.Background()); err != nil {
		log.Fatalf("seed members: %v", err)
	}
	if err := s.seedStaff(context.Background(), 60); err != nil {
		log.Fatalf("seed staff: %v", err)
	}
	if err := s.seedBills(context.Background(), 6); err != nil {
		log.Fatalf("seed bills: %v", err)
	}

	log.Println("seed complete")
}

type seeder struct {
	pool    *pgxpool.Pool
	unitIDs []int64
	members []uuid.UUID
}

func (s *seeder) seedBuildingsAndUnits(ctx context.Context, buildings, unitsPer int) error {
	log.Printf("seeding %d buildings with %d units each", buildings, unitsPer)

	wings := []string{"A", "B", "C"}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for b := 0; b < buildings; b++ {
		var buildingID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO buildings (name, created_at, updated_at)
			VALUES ($1, now(), now())
			RETURNING id
		`, gofakeit.StreetName()+" Tower").Scan(&buildingID)
		if err != nil {
			return err
		}

		for u := 0; u < unitsPer; u++ {
			floor := u/4 + 1
			wing := wings[gofakeit.Number(0, len(wings)-1)]
			unitNo := gofakeit.DigitN(3)

			var unitID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO units (building_id, unit_no, floor, wing, created_at, updated_at)
				VALUES ($1, $2, $3, $4, now(), now())
				RETURNING id
			`, buildingID, wing+"-"+unitNo, floor, wing).Scan(&unitID)
			if err != nil {
				return err
			}
			s.unitIDs = append(s.unitIDs, unitID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("buildings and units seeded")
	return nil
}

func (s *seeder) seedMembers(ctx context.Context) error {
	log.Printf("seeding %d members", len(s.unitIDs))

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// One member per unit keeps the dues report joins simple.
	for _, unitID := range s.unitIDs {
		id := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO members (id, name, mobile, unit_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, gofakeit.Name(), "91"+gofakeit.DigitN(10), unitID)
		if err != nil {
			return err
		}
		s.members = append(s.members, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("members seeded")
	return nil
}

func (s *seeder) seedStaff(ctx context.Context, count int) error {
	log.Printf("seeding %d staff", count)

	departments := []string{"Housekeeping", "Security", "Maintenance", "Gardening"}
	designations := []string{"Maid", "Cook", "Driver", "Guard", "Electrician", "Plumber"}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		scope := "member"
		var societyID, unitID any
		unitID = s.unitIDs[gofakeit.Number(0, len(s.unitIDs)-1)]
		if i%3 == 0 {
			scope = "society"
			societyID, unitID = int64(1), nil
		}
		createdBy := s.members[gofakeit.Number(0, len(s.members)-1)]

		dept := departments[gofakeit.Number(0, len(departments)-1)]
		desig := designations[gofakeit.Number(0, len(designations)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO staff (
				id, name, mobile, email, staff_scope, department, designation,
				society_id, unit_id, company_id, is_verified,
				created_by, updated_by, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11, $11, now(), now())
		`, id, gofakeit.Name(), "91"+gofakeit.DigitN(10), gofakeit.Email(),
			scope, dept, desig, societyID, unitID, gofakeit.Bool(), createdBy)
		if err != nil {
			return err
		}

		// Member staff get assigned to a handful of units' members.
		if scope == "member" {
			for j := 0; j < gofakeit.Number(1, 4); j++ {
				member := s.members[gofakeit.Number(0, len(s.members)-1)]
				_, err := tx.Exec(ctx, `
					INSERT INTO member_staff_assignments (member_id, staff_id, created_at)
					VALUES ($1, $2, now())
					ON CONFLICT DO NOTHING
				`, member, id)
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("staff seeded")
	return nil
}

func (s *seeder) seedBills(ctx context.Context, months int) error {
	log.Printf("seeding %d months of bills", months)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	for _, member := range s.members {
		for m := 0; m < months; m++ {
			cycle := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -m, 0)
			amount := float64(gofakeit.Number(2000, 12000))

			var billID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO member_bills (member_id, bill_cycle, amount, due_date, created_at, updated_at)
				VALUES ($1, $2, $3, $4, now(), now())
				RETURNING id
			`, member, cycle, amount, cycle.AddDate(0, 0, 10)).Scan(&billID)
			if err != nil {
				return err
			}

			// Roughly a third unpaid, a third partial, a third settled.
			switch gofakeit.Number(0, 2) {
			case 1:
				if err := insertPayment(ctx, tx, billID, amount/2, cycle.AddDate(0, 0, 5)); err != nil {
					return err
				}
			case 2:
				if err := insertPayment(ctx, tx, billID, amount, cycle.AddDate(0, 0, 5)); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("bills seeded")
	return nil
}

func insertPayment(ctx context.Context, tx pgx.Tx, billID int64, amount float64, at time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payments (bill_id, amount, payment_date, created_at)
		VALUES ($1, $2, $3, now())
	`, billID, amount, at)
	return err
}
