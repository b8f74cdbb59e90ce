package service

import (
	"errors"
	"fmt"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/pkg/logger"

	"gorm.io/gorm"
)

// ResolvedRateConfig is the active pricing configuration for a dormitory:
// the rate document plus the room type catalog indexed by id
type ResolvedRateConfig struct {
	Config    *models.RateConfig        `json:"config"`
	RoomTypes map[uint]*models.RoomType `json:"room_types"`
}

// RateConfigService defines the interface for rate configuration resolution
type RateConfigService interface {
	Resolve(dormitoryID uint) (*ResolvedRateConfig, error)
}

// rateConfigService implements RateConfigService
type rateConfigService struct {
	rateConfigRepo repository.RateConfigRepository
	logger         *logger.Logger
}

// NewRateConfigService creates a new instance of RateConfigService
func NewRateConfigService(rateConfigRepo repository.RateConfigRepository, logger *logger.Logger) RateConfigService {
	return &rateConfigService{
		rateConfigRepo: rateConfigRepo,
		logger:         logger,
	}
}

// Resolve assembles the active pricing configuration for a dormitory.
// Unset rate fields stay nil and mean "not charged", never zero.
func (s *rateConfigService) Resolve(dormitoryID uint) (*ResolvedRateConfig, error) {
	config, err := s.rateConfigRepo.GetByDormitoryID(dormitoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigMissing
		}
		return nil, fmt.Errorf("failed to load rate configuration: %w", err)
	}

	roomTypes, err := s.rateConfigRepo.GetRoomTypesByDormitoryID(dormitoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room types: %w", err)
	}

	catalog := make(map[uint]*models.RoomType, len(roomTypes))
	for _, rt := range roomTypes {
		catalog[rt.ID] = rt
	}

	return &ResolvedRateConfig{
		Config:    config,
		RoomTypes: catalog,
	}, nil
}
