// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tutoring-checkin/internal/config"
	pg "tutoring-checkin/internal/infra/db/postgres"
	"tutoring-checkin/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pg.RunMigrations(cfg.Database.URL); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sessionTypeRepo := pg.NewSessionTypeRepo(pool)
	sessionTypeUC := usecase.NewSessionTypeUseCase(sessionTypeRepo)

	// If session types already exist, do nothing
	existing, err := sessionTypeUC.List(ctx)
	if err != nil {
		log.Fatalf("list session types: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d session types already present. No changes.\n", len(existing))
		for _, st := range existing {
			fmt.Printf("  - %s (price=%d cents, duration=%dmin)\n", st.Name, st.UnitPrice, st.DurationMinutes)
		}
		return
	}

	// Seed a few sample session types for testing the check-in flow
	itemMath := "21"
	itemReading := "22"
	seed := []struct {
		Name    string
		Desc    string
		Price   int64
		Minutes int
		ItemRef *string
	}{
		{"Math Tutoring", "One-on-one math session", 6_500, 60, &itemMath},
		{"Reading Tutoring", "One-on-one reading session", 6_000, 60, &itemReading},
		{"Group Study", "Small group session", 3_500, 90, nil},
	}

	for _, s := range seed {
		st, err := sessionTypeUC.Create(ctx, s.Name, s.Desc, s.Price, s.Minutes, s.ItemRef)
		if err != nil {
			log.Fatalf("create session type %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, price=%d cents, duration=%dmin)\n", st.Name, st.ID, st.UnitPrice, st.DurationMinutes)
	}

	fmt.Println("Seeding complete.")
}
