package persistence

import (
	"context"
	"fmt"

	"github.com/scoutline/scoutline/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	if err := db.Session(context.Background()).AutoMigrate(
		&IntroductionModel{},
		&CheckInModel{},
		&CircumventionFlagModel{},
		&ReviewNoteModel{},
		&PlacementModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
