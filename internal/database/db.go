package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"afford-tracker/internal/models"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Dialector picks the GORM driver from the DSN scheme: "sqlite://<path>" opens
// SQLite, anything else is handed to the postgres driver.
func Dialector(dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, errors.New("empty DSN")
	}
	if path, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		if path == "" {
			return nil, errors.New("sqlite DSN has no path")
		}
		return sqlite.Open(path), nil
	}
	return postgres.Open(dsn), nil
}

// Open connects with retries, since the database container usually starts
// after the application one.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	dialector, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			log.Println("connected to DB successfully")
			return db, nil
		}

		log.Printf("failed to connect to DB: %v", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}

	return nil, fmt.Errorf("failed to connect to db after %d attempts: %w", maxAttempts, err)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("failed to close DB: %v", err)
	}
}
