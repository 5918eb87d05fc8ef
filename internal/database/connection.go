package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/config"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
)

// Connect opens the local session database. Sessions are the only state this
// service keeps outside the remote document; sqlite keeps logins alive across
// restarts without introducing a second server dependency.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.SessionDBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return db, nil
}

// AutoMigrate runs automatic migrations for all local models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Session{})
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
