package service

import (
	"errors"
	"fmt"
	"time"

	"dormitory-be-svc/internal/config"
	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordReadingInput carries a new meter reading submission
type RecordReadingInput struct {
	RoomID         uint
	Type           models.MeterType
	CurrentReading decimal.Decimal
	ReadingDate    time.Time
}

// RecordReadingResult is the saved reading plus any anomaly alerts raised.
// Alerts are advisory and never block the reading from being saved.
type RecordReadingResult struct {
	Reading *models.MeterReading `json:"reading"`
	Alerts  []*models.MeterAlert `json:"alerts"`
}

// MeterService defines the interface for meter reading operations
type MeterService interface {
	RecordReading(input RecordReadingInput) (*RecordReadingResult, error)
	ListReadingsByRoom(roomID uint, meterType *models.MeterType) ([]*models.MeterReading, error)
}

// meterService implements MeterService
type meterService struct {
	roomRepo         repository.RoomRepository
	meterReadingRepo repository.MeterReadingRepository
	vacantThreshold  decimal.Decimal
	highThreshold    decimal.Decimal
	logger           *logger.Logger
}

// NewMeterService creates a new instance of MeterService
func NewMeterService(
	roomRepo repository.RoomRepository,
	meterReadingRepo repository.MeterReadingRepository,
	billingCfg config.BillingConfig,
	logger *logger.Logger,
) MeterService {
	return &meterService{
		roomRepo:         roomRepo,
		meterReadingRepo: meterReadingRepo,
		vacantThreshold:  decimal.NewFromFloat(billingCfg.VacantRoomThreshold),
		highThreshold:    decimal.NewFromFloat(billingCfg.HighUsageThreshold),
		logger:           logger,
	}
}

// RecordReading validates and saves a meter reading for a room. The
// baseline is the latest billed reading, or the room's initial meter
// reading when nothing has been billed yet. Re-recording while an unbilled
// reading is pending replaces it in place and recomputes units from that
// same billed baseline, so an edit never yields zero usage against itself.
// Two concurrent first inserts race on the unbilled unique index; the loser
// is retried once with a fresh read and resolves as a replacement.
func (s *meterService) RecordReading(input RecordReadingInput) (*RecordReadingResult, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid meter type %q", input.Type)
	}

	room, err := s.roomRepo.GetRoomByID(input.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	for attempt := 0; ; attempt++ {
		result, err := s.recordOnce(room, input)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= 1 {
			return nil, err
		}

		s.logger.WithFields(map[string]interface{}{
			"room_id": room.ID,
			"type":    string(input.Type),
		}).Warn("Concurrent reading insert detected, retrying with a fresh read")
	}
}

func (s *meterService) recordOnce(room *models.Room, input RecordReadingInput) (*RecordReadingResult, error) {
	baseline := room.InitialMeterReading
	lastBilled, err := s.meterReadingRepo.GetLatestBilledReading(room.ID, input.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest billed reading: %w", err)
	}
	if lastBilled != nil {
		baseline = lastBilled.CurrentReading
	}

	if input.CurrentReading.LessThan(baseline) {
		return nil, ErrNonMonotonicReading
	}
	unitsUsed := input.CurrentReading.Sub(baseline)

	now := time.Now()
	reading := &models.MeterReading{
		RoomID:          room.ID,
		Type:            input.Type,
		PreviousReading: baseline,
		CurrentReading:  input.CurrentReading,
		UnitsUsed:       unitsUsed,
		ReadingDate:     input.ReadingDate,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}

	alerts := s.evaluateAnomalies(room, unitsUsed, input.ReadingDate, now)

	// The repository replaces the pending unbilled reading inside its
	// transaction, so a correction never stacks a second pending row.
	if err := s.meterReadingRepo.SaveReadingWithAlerts(reading, alerts); err != nil {
		return nil, fmt.Errorf("failed to save reading: %w", err)
	}

	if len(alerts) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"room_id":    room.ID,
			"type":       string(input.Type),
			"units_used": unitsUsed.String(),
			"alerts":     len(alerts),
		}).Warn("Meter reading raised anomaly alerts")
	}

	return &RecordReadingResult{
		Reading: reading,
		Alerts:  alerts,
	}, nil
}

// evaluateAnomalies applies the anomaly rules independently; both may fire
// for the same reading
func (s *meterService) evaluateAnomalies(room *models.Room, unitsUsed decimal.Decimal, readingDate, now time.Time) []*models.MeterAlert {
	var alerts []*models.MeterAlert

	if room.Status == models.RoomStatusAvailable && unitsUsed.GreaterThan(s.vacantThreshold) {
		alerts = append(alerts, &models.MeterAlert{
			RoomID:      room.ID,
			RuleType:    models.AlertRuleVacant,
			UnitsUsed:   unitsUsed,
			ReadingDate: readingDate,
			CreatedAt:   &now,
		})
	}

	if unitsUsed.GreaterThan(s.highThreshold) {
		alerts = append(alerts, &models.MeterAlert{
			RoomID:      room.ID,
			RuleType:    models.AlertRuleHigh,
			UnitsUsed:   unitsUsed,
			ReadingDate: readingDate,
			CreatedAt:   &now,
		})
	}

	return alerts
}

// ListReadingsByRoom retrieves readings for a room, optionally filtered by type
func (s *meterService) ListReadingsByRoom(roomID uint, meterType *models.MeterType) ([]*models.MeterReading, error) {
	return s.meterReadingRepo.ListReadingsByRoom(roomID, meterType)
}
