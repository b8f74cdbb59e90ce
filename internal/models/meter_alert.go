package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertRuleType identifies the anomaly rule that raised a meter alert
type AlertRuleType string

const (
	AlertRuleVacant AlertRuleType = "vacant"
	AlertRuleHigh   AlertRuleType = "high"
)

// MeterAlert represents the meter_alerts table. Alerts are advisory: they
// never block a reading from being saved.
type MeterAlert struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	RoomID      uint            `json:"room_id" gorm:"column:room_id;index"`
	RuleType    AlertRuleType   `json:"rule_type" gorm:"column:rule_type"`
	UnitsUsed   decimal.Decimal `json:"units_used" gorm:"column:units_used;type:numeric(12,2)"`
	ReadingDate time.Time       `json:"reading_date" gorm:"column:reading_date"`
	CreatedAt   *time.Time      `json:"created_at"`
}

// TableName sets the insert table name for MeterAlert
func (MeterAlert) TableName() string {
	return "meter_alerts"
}
