package repository

import (
	"dormitory-be-svc/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingStatistics holds aggregated billing figures for a dormitory/period
type BillingStatistics struct {
	TotalBills       int64           `json:"total_bills"`
	PendingCount     int64           `json:"pending_count"`
	PartiallyPaid    int64           `json:"partially_paid_count"`
	PaidCount        int64           `json:"paid_count"`
	OverdueCount     int64           `json:"overdue_count"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// DashboardRepository defines the interface for dashboard data operations
type DashboardRepository interface {
	GetBillingStatistics(dormitoryID uint, month, year *int) (*BillingStatistics, error)
}

// dashboardRepository implements DashboardRepository
type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new instance of DashboardRepository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{
		db: db,
	}
}

// GetBillingStatistics aggregates bill counts and totals for a dormitory,
// optionally restricted to one billing period
func (r *dashboardRepository) GetBillingStatistics(dormitoryID uint, month, year *int) (*BillingStatistics, error) {
	query := r.db.Model(&models.Bill{}).
		Where("dormitory_id = ? AND status <> ?", dormitoryID, models.BillStatusCancelled)
	if month != nil {
		query = query.Where("month = ?", *month)
	}
	if year != nil {
		query = query.Where("year = ?", *year)
	}

	var row struct {
		TotalBills       int64
		PendingCount     int64
		PartialCount     int64
		PaidCount        int64
		OverdueCount     int64
		TotalBilled      decimal.Decimal
		TotalCollected   decimal.Decimal
		TotalOutstanding decimal.Decimal
	}

	err := query.Select(`
		COUNT(*) as total_bills,
		COUNT(*) FILTER (WHERE status = 'pending') as pending_count,
		COUNT(*) FILTER (WHERE status = 'partially_paid') as partial_count,
		COUNT(*) FILTER (WHERE status = 'paid') as paid_count,
		COUNT(*) FILTER (WHERE status = 'overdue') as overdue_count,
		COALESCE(SUM(total_amount), 0) as total_billed,
		COALESCE(SUM(paid_amount), 0) as total_collected,
		COALESCE(SUM(remaining_amount), 0) as total_outstanding
	`).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &BillingStatistics{
		TotalBills:       row.TotalBills,
		PendingCount:     row.PendingCount,
		PartiallyPaid:    row.PartialCount,
		PaidCount:        row.PaidCount,
		OverdueCount:     row.OverdueCount,
		TotalBilled:      row.TotalBilled,
		TotalCollected:   row.TotalCollected,
		TotalOutstanding: row.TotalOutstanding,
	}, nil
}
