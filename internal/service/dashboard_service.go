package service

import (
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/pkg/logger"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	GetBillingStatistics(dormitoryID uint, month, year *int) (*repository.BillingStatistics, error)
}

// dashboardService implements DashboardService
type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	logger        *logger.Logger
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(dashboardRepo repository.DashboardRepository, logger *logger.Logger) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		logger:        logger,
	}
}

// GetBillingStatistics retrieves aggregated billing figures for a dormitory
func (s *dashboardService) GetBillingStatistics(dormitoryID uint, month, year *int) (*repository.BillingStatistics, error) {
	return s.dashboardRepo.GetBillingStatistics(dormitoryID, month, year)
}
