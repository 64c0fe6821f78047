package database

import (
	"github.com/gramseva/api/internal/config"
	"github.com/gramseva/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Grievance{},
		&model.Verification{},
		&model.BlockchainRecord{},
	)
	if err != nil {
		return err
	}

	// Composite index for the officer work queue (status filter, creation order)
	db.Exec("CREATE INDEX IF NOT EXISTS idx_grievances_status_created_at ON grievances(status, created_at)")
	// Verifications are always fetched per grievance in creation order
	db.Exec("CREATE INDEX IF NOT EXISTS idx_verifications_grievance_created_at ON verifications(grievance_id, created_at)")

	return nil
}
