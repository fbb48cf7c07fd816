package db

import "gorm.io/gorm"

// Schema is the Postgres schema holding every Fenrir table.
const Schema = "fenrir"

// EnsureSchema creates the schema if missing. Each feature package
// calls this from Init before auto-migrating its tables.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
