package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RoomStatus represents the occupancy status of a room
type RoomStatus string

const (
	RoomStatusAvailable      RoomStatus = "available"
	RoomStatusOccupied       RoomStatus = "occupied"
	RoomStatusMaintenance    RoomStatus = "maintenance"
	RoomStatusPendingPayment RoomStatus = "pending_payment"
	RoomStatusMovingOut      RoomStatus = "moving_out"
)

// IsValid checks if the status is a valid RoomStatus
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance,
		RoomStatusPendingPayment, RoomStatusMovingOut:
		return true
	}
	return false
}

// ServiceIDs is a list of selected additional-service ids stored as JSONB
type ServiceIDs []string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s ServiceIDs) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *ServiceIDs) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = ServiceIDs{} })
}

// Room represents the rooms table. Room numbers are unique per dormitory
// regardless of status.
type Room struct {
	ID                   uint            `json:"id" gorm:"primarykey"`
	DocumentID           *string         `json:"document_id" gorm:"column:document_id"`
	DormitoryID          uint            `json:"dormitory_id" gorm:"column:dormitory_id;uniqueIndex:idx_rooms_dormitory_number"`
	Number               string          `json:"number" gorm:"column:number;uniqueIndex:idx_rooms_dormitory_number"`
	Floor                int             `json:"floor" gorm:"column:floor"`
	RoomTypeID           uint            `json:"room_type_id" gorm:"column:room_type_id"`
	Status               RoomStatus      `json:"status" gorm:"column:status"`
	AdditionalServiceIDs ServiceIDs      `json:"additional_service_ids" gorm:"column:additional_service_ids;type:jsonb"`
	InitialMeterReading  decimal.Decimal `json:"initial_meter_reading" gorm:"column:initial_meter_reading;type:numeric(12,2)"`
	CreatedAt            *time.Time      `json:"created_at"`
	UpdatedAt            *time.Time      `json:"updated_at"`
}

// TableName sets the insert table name for Room
func (Room) TableName() string {
	return "rooms"
}
