package main

import (
	"log"

	"github.com/fenrir-gym/fenrir-backend/internal/config"
	"github.com/fenrir-gym/fenrir-backend/internal/db"
	"github.com/fenrir-gym/fenrir-backend/internal/seeds"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/workouts"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	users.Init(conn)
	workouts.Init(conn)

	if err := seeds.SeedAll(users.NewGormStore(conn), workouts.NewGormStore(conn)); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
