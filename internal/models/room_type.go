package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType represents the room_types table
type RoomType struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	DocumentID  *string         `json:"document_id" gorm:"column:document_id"`
	DormitoryID uint            `json:"dormitory_id" gorm:"column:dormitory_id;index"`
	Name        string          `json:"name" gorm:"column:name"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"column:base_price;type:numeric(12,2)"`
	IsDefault   bool            `json:"is_default" gorm:"column:is_default"`
	CreatedAt   *time.Time      `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

// TableName sets the insert table name for RoomType
func (RoomType) TableName() string {
	return "room_types"
}
