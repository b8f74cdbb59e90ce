package repository

import (
	"dormitory-be-svc/internal/models"

	"gorm.io/gorm"
)

// RoomRepository defines the interface for room data operations
type RoomRepository interface {
	GetRoomByID(id uint) (*models.Room, error)
	GetOccupiedRoomsByDormitoryID(dormitoryID uint) ([]*models.Room, error)
}

// roomRepository implements RoomRepository
type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new instance of RoomRepository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{
		db: db,
	}
}

// GetRoomByID retrieves a room by ID
func (r *roomRepository) GetRoomByID(id uint) (*models.Room, error) {
	var room models.Room

	err := r.db.Where("id = ?", id).First(&room).Error
	if err != nil {
		return nil, err
	}

	return &room, nil
}

// GetOccupiedRoomsByDormitoryID retrieves all occupied rooms in a dormitory
func (r *roomRepository) GetOccupiedRoomsByDormitoryID(dormitoryID uint) ([]*models.Room, error) {
	var rooms []*models.Room

	err := r.db.Where("dormitory_id = ? AND status = ?", dormitoryID, models.RoomStatusOccupied).
		Order("number").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	return rooms, nil
}
