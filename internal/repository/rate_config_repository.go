package repository

import (
	"dormitory-be-svc/internal/models"

	"gorm.io/gorm"
)

// RateConfigRepository defines the interface for rate configuration data operations
type RateConfigRepository interface {
	GetByDormitoryID(dormitoryID uint) (*models.RateConfig, error)
	GetRoomTypesByDormitoryID(dormitoryID uint) ([]*models.RoomType, error)
}

// rateConfigRepository implements RateConfigRepository
type rateConfigRepository struct {
	db *gorm.DB
}

// NewRateConfigRepository creates a new instance of RateConfigRepository
func NewRateConfigRepository(db *gorm.DB) RateConfigRepository {
	return &rateConfigRepository{
		db: db,
	}
}

// GetByDormitoryID retrieves the rate configuration for a dormitory
func (r *rateConfigRepository) GetByDormitoryID(dormitoryID uint) (*models.RateConfig, error) {
	var config models.RateConfig

	err := r.db.Where("dormitory_id = ?", dormitoryID).First(&config).Error
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// GetRoomTypesByDormitoryID retrieves the room type catalog for a dormitory
func (r *rateConfigRepository) GetRoomTypesByDormitoryID(dormitoryID uint) ([]*models.RoomType, error) {
	var roomTypes []*models.RoomType

	err := r.db.Where("dormitory_id = ?", dormitoryID).Order("id").Find(&roomTypes).Error
	if err != nil {
		return nil, err
	}

	return roomTypes, nil
}
