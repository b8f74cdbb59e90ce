package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MeterType represents the utility a meter reading belongs to
type MeterType string

const (
	MeterTypeElectric MeterType = "electric"
	MeterTypeWater    MeterType = "water"
)

// IsValid checks if the meter type is valid
func (t MeterType) IsValid() bool {
	return t == MeterTypeElectric || t == MeterTypeWater
}

// MeterReading represents the meter_readings table. CurrentReading is never
// below PreviousReading; at most one unbilled reading exists per room and
// utility type, enforced by a partial unique index.
type MeterReading struct {
	ID              uint            `json:"id" gorm:"primarykey"`
	RoomID          uint            `json:"room_id" gorm:"column:room_id;index:idx_meter_readings_room_type;uniqueIndex:idx_meter_readings_unbilled,where:is_billed = false"`
	Type            MeterType       `json:"type" gorm:"column:type;index:idx_meter_readings_room_type;uniqueIndex:idx_meter_readings_unbilled"`
	PreviousReading decimal.Decimal `json:"previous_reading" gorm:"column:previous_reading;type:numeric(12,2)"`
	CurrentReading  decimal.Decimal `json:"current_reading" gorm:"column:current_reading;type:numeric(12,2)"`
	UnitsUsed       decimal.Decimal `json:"units_used" gorm:"column:units_used;type:numeric(12,2)"`
	ReadingDate     time.Time       `json:"reading_date" gorm:"column:reading_date"`
	IsBilled        bool            `json:"is_billed" gorm:"column:is_billed"`
	CreatedAt       *time.Time      `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

// TableName sets the insert table name for MeterReading
func (MeterReading) TableName() string {
	return "meter_readings"
}
