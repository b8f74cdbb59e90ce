package database

import (
	"fmt"

	"dormitory-be-svc/internal/config"
	"dormitory-be-svc/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the gorm DB connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	// TranslateError maps driver errors onto gorm's sentinels; services rely
	// on gorm.ErrDuplicatedKey to detect concurrent duplicate inserts.
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate runs automatic migrations for all models
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&models.RoomType{},
		&models.RateConfig{},
		&models.Room{},
		&models.Tenant{},
		&models.MeterReading{},
		&models.MeterAlert{},
		&models.Bill{},
		&models.Payment{},
		&models.SchedulerLog{},
	)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
