package repository

import (
	"errors"
	"time"

	"dormitory-be-svc/internal/models"

	"gorm.io/gorm"
)

// BillFilters holds the optional filters for bill listings
type BillFilters struct {
	DormitoryID *uint
	RoomID      *uint
	Month       *int
	Year        *int
	Status      *models.BillStatus
}

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	GetBillByID(id uint) (*models.Bill, error)
	FindActiveBillByRoomPeriod(roomID uint, month, year int) (*models.Bill, error)
	CreateBillFinalized(bill *models.Bill, consumedReadingIDs []uint, tenant *models.Tenant) error
	UpdateBillWithVersion(bill *models.Bill) error
	SavePaymentAndBill(payment *models.Payment, bill *models.Bill) error
	ListBills(filters BillFilters, page, limit int) ([]*models.Bill, int64, error)
	ListUnpaidDueBills(now time.Time) ([]*models.Bill, error)
}

// billRepository implements BillRepository
type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new instance of BillRepository
func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{
		db: db,
	}
}

// GetBillByID retrieves a bill by ID
func (r *billRepository) GetBillByID(id uint) (*models.Bill, error) {
	var bill models.Bill

	err := r.db.Where("id = ?", id).First(&bill).Error
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

// FindActiveBillByRoomPeriod retrieves the non-cancelled bill for a room and
// billing period, or nil when none exists
func (r *billRepository) FindActiveBillByRoomPeriod(roomID uint, month, year int) (*models.Bill, error) {
	var bill models.Bill

	err := r.db.Where("room_id = ? AND month = ? AND year = ? AND status <> ?",
		roomID, month, year, models.BillStatusCancelled).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &bill, nil
}

// CreateBillFinalized persists a new bill and its finalization side effects
// in one transaction: consumed meter readings are marked billed and the
// tenant's special items (already decremented by the caller) are saved.
// Returns ErrDuplicateBill when a concurrent writer created a bill for the
// same room and period first.
func (r *billRepository) CreateBillFinalized(bill *models.Bill, consumedReadingIDs []uint, tenant *models.Tenant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Re-check inside the transaction so two concurrent creations
		// cannot both pass the service-level duplicate check.
		var count int64
		if err := tx.Model(&models.Bill{}).
			Where("room_id = ? AND month = ? AND year = ? AND status <> ?",
				bill.RoomID, bill.Month, bill.Year, models.BillStatusCancelled).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateBill
		}

		if err := tx.Create(bill).Error; err != nil {
			return err
		}

		if len(consumedReadingIDs) > 0 {
			if err := tx.Model(&models.MeterReading{}).
				Where("id IN ?", consumedReadingIDs).
				Update("is_billed", true).Error; err != nil {
				return err
			}
		}

		if tenant != nil {
			if err := tx.Model(&models.Tenant{}).
				Where("id = ?", tenant.ID).
				Update("special_items", tenant.SpecialItems).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// UpdateBillWithVersion updates the mutable bill fields guarded by the
// optimistic version counter. Returns ErrVersionConflict when the row was
// modified since the bill was read.
func (r *billRepository) UpdateBillWithVersion(bill *models.Bill) error {
	return r.updateWithVersion(r.db, bill)
}

// SavePaymentAndBill appends a payment and updates the bill's amounts and
// status atomically, guarded by the bill's optimistic version counter
func (r *billRepository) SavePaymentAndBill(payment *models.Payment, bill *models.Bill) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return r.updateWithVersion(tx, bill)
	})
}

func (r *billRepository) updateWithVersion(tx *gorm.DB, bill *models.Bill) error {
	res := tx.Model(&models.Bill{}).
		Where("id = ? AND version = ?", bill.ID, bill.Version).
		Updates(map[string]interface{}{
			"paid_amount":      bill.PaidAmount,
			"remaining_amount": bill.RemainingAmount,
			"status":           bill.Status,
			"version":          bill.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}

	bill.Version++
	return nil
}

// ListBills retrieves bills matching the filters with pagination
func (r *billRepository) ListBills(filters BillFilters, page, limit int) ([]*models.Bill, int64, error) {
	var bills []*models.Bill

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := r.db.Model(&models.Bill{})
	if filters.DormitoryID != nil {
		query = query.Where("dormitory_id = ?", *filters.DormitoryID)
	}
	if filters.RoomID != nil {
		query = query.Where("room_id = ?", *filters.RoomID)
	}
	if filters.Month != nil {
		query = query.Where("month = ?", *filters.Month)
	}
	if filters.Year != nil {
		query = query.Where("year = ?", *filters.Year)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("year DESC, month DESC, room_id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bills).Error
	if err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}

// ListUnpaidDueBills retrieves bills whose due date has passed and that are
// not yet fully paid, cancelled or already overdue
func (r *billRepository) ListUnpaidDueBills(now time.Time) ([]*models.Bill, error) {
	var bills []*models.Bill

	err := r.db.Where("due_date < ? AND status IN ?", now,
		[]models.BillStatus{models.BillStatusPending, models.BillStatusPartiallyPaid}).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}

	return bills, nil
}
