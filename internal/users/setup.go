package users

import (
	"log"

	"gorm.io/gorm"

	"github.com/fenrir-gym/fenrir-backend/internal/db"
)

func Init(conn *gorm.DB) {
	if err := db.EnsureSchema(conn, db.Schema); err != nil {
		log.Fatal("Failed to ensure schema fenrir: ", err)
	}

	if err := conn.AutoMigrate(&User{}); err != nil {
		log.Fatal("Failed to auto-migrate user tables: ", err)
	}
}
