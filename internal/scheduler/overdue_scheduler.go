package scheduler

import (
	"fmt"
	"time"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// OverdueScheduler runs the periodic sweep that marks unpaid bills past
// their due date as overdue. Each bill's transition is idempotent, so an
// interrupted sweep is safe to rerun.
type OverdueScheduler struct {
	billingService   service.BillingService
	schedulerLogRepo repository.SchedulerLogRepository
	logger           *logger.Logger
	cron             *cron.Cron
	cronExpression   string
}

// NewOverdueScheduler creates a new overdue sweep scheduler
func NewOverdueScheduler(billingService service.BillingService, schedulerLogRepo repository.SchedulerLogRepository, logger *logger.Logger, cronExpression string) *OverdueScheduler {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &OverdueScheduler{
		billingService:   billingService,
		schedulerLogRepo: schedulerLogRepo,
		logger:           logger,
		cron:             c,
		cronExpression:   cronExpression,
	}
}

// Start initializes and starts the scheduled sweep
func (s *OverdueScheduler) Start() error {
	s.logger.WithField("cron_expression", s.cronExpression).Info("Scheduling overdue sweep")

	_, err := s.cron.AddFunc(s.cronExpression, s.sweepOverdueBills)
	if err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Overdue scheduler started successfully")

	return nil
}

// Stop gracefully stops the scheduler
func (s *OverdueScheduler) Stop() {
	s.logger.Info("Stopping overdue scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Overdue scheduler stopped successfully")
}

// sweepOverdueBills is the scheduled job that marks due bills overdue
func (s *OverdueScheduler) sweepOverdueBills() {
	schedulerCode := "OVERDUE_BILL_SWEEP"
	now := time.Now()
	docID := uuid.New().String()

	s.logScheduler(schedulerCode, docID, "Starting overdue bill sweep", "START", &now)
	s.logger.Info("Starting scheduled overdue bill sweep...")

	transitioned, err := s.billingService.SweepOverdueBills(now)
	if err != nil {
		failedMessage := fmt.Sprintf("Overdue sweep failed: %v", err)
		s.logScheduler(schedulerCode, docID, failedMessage, "FAILED", &now)
		s.logger.WithError(err).Error("Overdue bill sweep failed")
		return
	}

	successMessage := fmt.Sprintf("Overdue sweep completed, %d bills transitioned", transitioned)
	s.logScheduler(schedulerCode, docID, successMessage, "SUCCESS", &now)
	s.logger.WithField("transitioned", transitioned).Info("Overdue bill sweep completed")
}

// logScheduler creates a new log entry in the database
func (s *OverdueScheduler) logScheduler(schedulerCode, documentID, message, status string, createdAt *time.Time) {
	logEntry := &models.SchedulerLog{
		DocumentID:    &documentID,
		SchedulerCode: &schedulerCode,
		Message:       &message,
		Status:        &status,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if err := s.schedulerLogRepo.CreateSchedulerLog(logEntry); err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to create scheduler log entry")
	}
}
