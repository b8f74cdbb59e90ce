package repository

import (
	"errors"

	"dormitory-be-svc/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MeterReadingRepository defines the interface for meter reading data operations
type MeterReadingRepository interface {
	GetLatestBilledReading(roomID uint, meterType models.MeterType) (*models.MeterReading, error)
	GetUnbilledReading(roomID uint, meterType models.MeterType) (*models.MeterReading, error)
	SaveReadingWithAlerts(reading *models.MeterReading, alerts []*models.MeterAlert) error
	ListReadingsByRoom(roomID uint, meterType *models.MeterType) ([]*models.MeterReading, error)
}

// meterReadingRepository implements MeterReadingRepository
type meterReadingRepository struct {
	db *gorm.DB
}

// NewMeterReadingRepository creates a new instance of MeterReadingRepository
func NewMeterReadingRepository(db *gorm.DB) MeterReadingRepository {
	return &meterReadingRepository{
		db: db,
	}
}

// GetLatestBilledReading retrieves the most recent billed reading for a room
// and utility type, or nil when no reading has been billed yet
func (r *meterReadingRepository) GetLatestBilledReading(roomID uint, meterType models.MeterType) (*models.MeterReading, error) {
	var reading models.MeterReading

	err := r.db.Where("room_id = ? AND type = ? AND is_billed = ?", roomID, meterType, true).
		Order("reading_date DESC, id DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &reading, nil
}

// GetUnbilledReading retrieves the pending unbilled reading for a room and
// utility type, or nil when none exists
func (r *meterReadingRepository) GetUnbilledReading(roomID uint, meterType models.MeterType) (*models.MeterReading, error) {
	var reading models.MeterReading

	err := r.db.Where("room_id = ? AND type = ? AND is_billed = ?", roomID, meterType, false).
		Order("reading_date DESC, id DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &reading, nil
}

// SaveReadingWithAlerts persists a reading together with any raised alerts
// in one transaction. The pending unbilled row for the same room and type is
// looked up inside the transaction (locked for update) and replaced in
// place, so a correction can never stack a second pending row next to the
// one it meant to overwrite. A concurrent first insert that slips past the
// lookup hits the partial unique index on unbilled readings and surfaces as
// gorm.ErrDuplicatedKey for the caller to retry.
func (r *meterReadingRepository) SaveReadingWithAlerts(reading *models.MeterReading, alerts []*models.MeterAlert) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var pending models.MeterReading
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND type = ? AND is_billed = ?", reading.RoomID, reading.Type, false).
			First(&pending).Error
		switch {
		case err == nil:
			reading.ID = pending.ID
			reading.CreatedAt = pending.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first reading for the cycle, plain insert
		default:
			return err
		}

		if err := tx.Save(reading).Error; err != nil {
			return err
		}

		for _, alert := range alerts {
			if err := tx.Create(alert).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// ListReadingsByRoom retrieves readings for a room, optionally filtered by type
func (r *meterReadingRepository) ListReadingsByRoom(roomID uint, meterType *models.MeterType) ([]*models.MeterReading, error) {
	var readings []*models.MeterReading

	query := r.db.Where("room_id = ?", roomID)
	if meterType != nil {
		query = query.Where("type = ?", *meterType)
	}

	err := query.Order("reading_date DESC, id DESC").Find(&readings).Error
	if err != nil {
		return nil, err
	}

	return readings, nil
}
