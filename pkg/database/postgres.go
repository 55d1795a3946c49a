package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

// New opens the postgres connection. The handle is passed down explicitly;
// there is no package-level database state.
func New(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Operator{},
		&models.Event{},
		&models.Capture{},
		&models.PlanPurchase{},
		&models.CleanupRun{},
		&models.CleanupError{},
	)
}
