package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rox-tutor/internal/config"
	"rox-tutor/internal/session"
	"rox-tutor/internal/student"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.Postgres.DSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	} else {
		// DSN-less dev mode
		path := cfg.SQLite.Path
		if path == "" {
			path = "rox-tutor.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&student.Student{}); err != nil {
		return err
	}

	// Turn checkpoint log (cross-turn ordering lives here)
	if err := db.AutoMigrate(&session.TurnCheckpoint{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
