package workouts

import (
	"log"

	"gorm.io/gorm"

	"github.com/fenrir-gym/fenrir-backend/internal/db"
)

func Init(conn *gorm.DB) {
	if err := db.EnsureSchema(conn, db.Schema); err != nil {
		log.Fatal("Failed to ensure schema fenrir: ", err)
	}

	if err := conn.AutoMigrate(&Workout{}, &Participation{}); err != nil {
		log.Fatal("Failed to auto-migrate workout tables: ", err)
	}
}
