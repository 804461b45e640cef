package store

import (
	"errors"
	"fmt"

	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("record not found")

// Open connects to Postgres and migrates every table the API owns.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("✅ Database connected and migrated")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.MenuItem{},
		&models.ItemVariant{},
		&models.Addon{},
		&models.Combo{},
		&models.TodaySpecial{},
		&models.Order{},
		&models.Admin{},
		&models.GuestSession{},
		&models.TableQR{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
