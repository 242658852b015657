package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"crop-monitor/confs"
	"crop-monitor/entities"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the relational backend. A SQLite file is used by default;
// setting DB_URL switches to Postgres, which hosted environments expose as a
// single connection string.
func Connect(cfg *confs.Config) (Database, error) {
	var dialector gorm.Dialector

	if cfg.DatabaseURL != "" {
		dsn := cfg.DatabaseURL

		// Hosted Postgres usually requires SSL; add it when the URL omits it.
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}

		log.Println("Connecting to Postgres using DB_URL...")
		dialector = postgres.Open(dsn)
	} else {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}

		log.Printf("Connecting to SQLite database at %s...", cfg.SQLitePath)
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connection established successfully!")

	return &GormDatabase{DB: db}, nil
}

// Migrate creates the readings table and the reference tables, including the
// unique name indexes the lookup resolver relies on.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.CropRecord{},
		&entities.SoilTypeRecord{},
		&entities.GrowthStageRecord{},
		&entities.ReadingRecord{},
	)
}
