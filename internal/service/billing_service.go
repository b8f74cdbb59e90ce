package service

import (
	"errors"
	"fmt"
	"time"

	"dormitory-be-svc/internal/config"
	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// BillingService defines the interface for billing business operations
type BillingService interface {
	ComputeCharges(roomID uint, month, year int) (*ChargeBreakdown, error)
	CreateBill(roomID uint, month, year int, dueDate *time.Time) (*models.Bill, error)
	CreateMonthlyBills(dormitoryID uint, month, year int, dueDate *time.Time) (*BulkBillingResponse, error)
	GetBill(id uint) (*models.Bill, error)
	ListBills(filters repository.BillFilters, page, limit int) ([]*models.Bill, int64, error)
	MarkOverdueIfDue(billID uint, now time.Time) (*models.Bill, error)
	SweepOverdueBills(now time.Time) (int, error)
	ExportBillsToExcel(filters repository.BillFilters) ([]byte, string, error)
}

// BulkBillingResponse reports the outcome of a bulk bill creation run.
// Rooms that already have a bill for the period are counted as skipped.
type BulkBillingResponse struct {
	TotalRooms   int      `json:"total_rooms"`
	SuccessCount int      `json:"success_count"`
	SkippedCount int      `json:"skipped_count"`
	FailedCount  int      `json:"failed_count"`
	BillIDs      []uint   `json:"bill_ids,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// billingService implements BillingService
type billingService struct {
	rateConfigService RateConfigService
	roomRepo          repository.RoomRepository
	tenantRepo        repository.TenantRepository
	meterReadingRepo  repository.MeterReadingRepository
	billRepo          repository.BillRepository
	billingCfg        config.BillingConfig
	logger            *logger.Logger
}

// NewBillingService creates a new instance of BillingService
func NewBillingService(
	rateConfigService RateConfigService,
	roomRepo repository.RoomRepository,
	tenantRepo repository.TenantRepository,
	meterReadingRepo repository.MeterReadingRepository,
	billRepo repository.BillRepository,
	billingCfg config.BillingConfig,
	logger *logger.Logger,
) BillingService {
	return &billingService{
		rateConfigService: rateConfigService,
		roomRepo:          roomRepo,
		tenantRepo:        tenantRepo,
		meterReadingRepo:  meterReadingRepo,
		billRepo:          billRepo,
		billingCfg:        billingCfg,
		logger:            logger,
	}
}

// ComputeCharges resolves the rate configuration for the room's dormitory
// and produces the itemized charge breakdown for the billing period without
// creating a bill
func (s *billingService) ComputeCharges(roomID uint, month, year int) (*ChargeBreakdown, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	cfg, err := s.rateConfigService.Resolve(room.DormitoryID)
	if err != nil {
		return nil, err
	}

	return s.computeChargesForRoom(room, cfg, month, year)
}

func (s *billingService) computeChargesForRoom(room *models.Room, cfg *ResolvedRateConfig, month, year int) (*ChargeBreakdown, error) {
	tenant, err := s.tenantRepo.GetTenantByRoomID(room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant for room %s: %w", room.Number, err)
	}

	electricReading, err := s.meterReadingRepo.GetUnbilledReading(room.ID, models.MeterTypeElectric)
	if err != nil {
		return nil, fmt.Errorf("failed to get unbilled electric reading: %w", err)
	}

	return ComputeCharges(room, tenant, cfg, month, year, electricReading)
}

// CreateBill creates and finalizes a bill for one room and billing period.
// Finalization marks the consumed meter readings billed and decrements the
// tenant's consumed special items in the same transaction.
func (s *billingService) CreateBill(roomID uint, month, year int, dueDate *time.Time) (*models.Bill, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	existing, err := s.billRepo.FindActiveBillByRoomPeriod(roomID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bill: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateBillPeriod
	}

	cfg, err := s.rateConfigService.Resolve(room.DormitoryID)
	if err != nil {
		return nil, err
	}

	return s.createBillForRoom(room, cfg, month, year, dueDate)
}

func (s *billingService) createBillForRoom(room *models.Room, cfg *ResolvedRateConfig, month, year int, dueDate *time.Time) (*models.Bill, error) {
	tenant, err := s.tenantRepo.GetTenantByRoomID(room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant for room %s: %w", room.Number, err)
	}

	electricReading, err := s.meterReadingRepo.GetUnbilledReading(room.ID, models.MeterTypeElectric)
	if err != nil {
		return nil, fmt.Errorf("failed to get unbilled electric reading: %w", err)
	}

	breakdown, err := ComputeCharges(room, tenant, cfg, month, year, electricReading)
	if err != nil {
		return nil, err
	}

	due := s.resolveDueDate(month, year, dueDate)
	now := time.Now()
	docID := "bill-" + uuid.New().String()

	bill := &models.Bill{
		DocumentID:      &docID,
		DormitoryID:     room.DormitoryID,
		RoomID:          room.ID,
		TenantID:        breakdown.TenantID,
		Month:           month,
		Year:            year,
		Items:           breakdown.Items,
		TotalAmount:     breakdown.TotalAmount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: breakdown.TotalAmount,
		Status:          models.BillStatusPending,
		DueDate:         due,
		Version:         1,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}

	consumedTenant := consumeSpecialItems(tenant, breakdown.ConsumedSpecialItemIDs, now)

	if err := s.billRepo.CreateBillFinalized(bill, breakdown.ConsumedReadingIDs, consumedTenant); err != nil {
		if errors.Is(err, repository.ErrDuplicateBill) {
			return nil, ErrDuplicateBillPeriod
		}
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"bill_id": bill.ID,
		"room_id": room.ID,
		"month":   month,
		"year":    year,
		"total":   bill.TotalAmount.String(),
	}).Info("Bill created")

	return bill, nil
}

// consumeSpecialItems returns a tenant copy with the consumed items
// accounted for: one-shot items get a consumed timestamp, recurring items
// lose one remaining cycle. Returns nil when nothing was consumed.
func consumeSpecialItems(tenant *models.Tenant, consumedIDs []string, now time.Time) *models.Tenant {
	if tenant == nil || len(consumedIDs) == 0 {
		return nil
	}

	consumed := make(map[string]bool, len(consumedIDs))
	for _, id := range consumedIDs {
		consumed[id] = true
	}

	updated := *tenant
	updated.SpecialItems = make(models.SpecialItems, len(tenant.SpecialItems))
	copy(updated.SpecialItems, tenant.SpecialItems)

	for i := range updated.SpecialItems {
		item := &updated.SpecialItems[i]
		if !consumed[item.ID] {
			continue
		}
		if item.Once {
			consumedAt := now
			item.ConsumedAt = &consumedAt
		} else if item.RemainingBillingCycles > 0 {
			item.RemainingBillingCycles--
		}
	}

	return &updated
}

// resolveDueDate returns the caller-supplied due date, or the configured
// due day in the month following the billing period
func (s *billingService) resolveDueDate(month, year int, dueDate *time.Time) time.Time {
	if dueDate != nil {
		return *dueDate
	}
	firstOfPeriod := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := firstOfPeriod.AddDate(0, 1, 0)
	return time.Date(next.Year(), next.Month(), s.billingCfg.DefaultDueDay, 0, 0, 0, 0, time.UTC)
}

// CreateMonthlyBills creates bills for every occupied room in a dormitory.
// Per-room failures are collected into the report instead of aborting the
// whole run; rooms that already have a bill for the period are skipped.
func (s *billingService) CreateMonthlyBills(dormitoryID uint, month, year int, dueDate *time.Time) (*BulkBillingResponse, error) {
	cfg, err := s.rateConfigService.Resolve(dormitoryID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.GetOccupiedRoomsByDormitoryID(dormitoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get occupied rooms: %w", err)
	}

	response := &BulkBillingResponse{
		TotalRooms: len(rooms),
	}

	for _, room := range rooms {
		existing, err := s.billRepo.FindActiveBillByRoomPeriod(room.ID, month, year)
		if err != nil {
			response.FailedCount++
			response.Errors = append(response.Errors, fmt.Sprintf("room %s: %v", room.Number, err))
			continue
		}
		if existing != nil {
			response.SkippedCount++
			continue
		}

		bill, err := s.createBillForRoom(room, cfg, month, year, dueDate)
		if err != nil {
			if errors.Is(err, ErrDuplicateBillPeriod) {
				response.SkippedCount++
				continue
			}
			response.FailedCount++
			response.Errors = append(response.Errors, fmt.Sprintf("room %s: %v", room.Number, err))
			continue
		}

		response.SuccessCount++
		response.BillIDs = append(response.BillIDs, bill.ID)
	}

	s.logger.WithFields(map[string]interface{}{
		"dormitory_id": dormitoryID,
		"month":        month,
		"year":         year,
		"success":      response.SuccessCount,
		"skipped":      response.SkippedCount,
		"failed":       response.FailedCount,
	}).Info("Bulk monthly billing run completed")

	return response, nil
}

// GetBill retrieves a bill by ID
func (s *billingService) GetBill(id uint) (*models.Bill, error) {
	return s.billRepo.GetBillByID(id)
}

// ListBills retrieves bills matching the filters with pagination
func (s *billingService) ListBills(filters repository.BillFilters, page, limit int) ([]*models.Bill, int64, error) {
	return s.billRepo.ListBills(filters, page, limit)
}

// MarkOverdueIfDue transitions a bill to overdue when its due date has
// passed without full payment. The operation is idempotent; a lost
// optimistic write is retried once with a fresh read.
func (s *billingService) MarkOverdueIfDue(billID uint, now time.Time) (*models.Bill, error) {
	for attempt := 0; ; attempt++ {
		bill, err := s.billRepo.GetBillByID(billID)
		if err != nil {
			return nil, fmt.Errorf("failed to get bill: %w", err)
		}

		if !transitionOverdueIfDue(bill, now) {
			return bill, nil
		}

		err = s.billRepo.UpdateBillWithVersion(bill)
		if err == nil {
			s.logger.WithFields(map[string]interface{}{
				"bill_id":  bill.ID,
				"due_date": bill.DueDate,
			}).Info("Bill marked overdue")
			return bill, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) || attempt >= 1 {
			return nil, fmt.Errorf("failed to mark bill overdue: %w", err)
		}
	}
}

// SweepOverdueBills marks every unpaid bill past its due date as overdue
// and returns the number of bills transitioned
func (s *billingService) SweepOverdueBills(now time.Time) (int, error) {
	bills, err := s.billRepo.ListUnpaidDueBills(now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due bills: %w", err)
	}

	transitioned := 0
	for _, bill := range bills {
		if _, err := s.MarkOverdueIfDue(bill.ID, now); err != nil {
			s.logger.WithError(err).WithField("bill_id", bill.ID).Error("Failed to mark bill overdue")
			continue
		}
		transitioned++
	}

	return transitioned, nil
}

// ExportBillsToExcel exports bills matching the filters to an Excel file
func (s *billingService) ExportBillsToExcel(filters repository.BillFilters) ([]byte, string, error) {
	bills, _, err := s.billRepo.ListBills(filters, 1, 10000)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get bills for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close Excel file")
		}
	}()

	sheetName := "Bills"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"No", "Room", "Tenant", "Month", "Year", "Total", "Paid", "Remaining", "Status", "Due Date"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D3D3D3"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "J1", headerStyle)
	}

	monthNames := map[int]string{
		1: "January", 2: "February", 3: "March", 4: "April",
		5: "May", 6: "June", 7: "July", 8: "August",
		9: "September", 10: "October", 11: "November", 12: "December",
	}

	tenantNames := make(map[uint]string)
	for i, bill := range bills {
		row := i + 2

		monthName := fmt.Sprintf("%d", bill.Month)
		if name, ok := monthNames[bill.Month]; ok {
			monthName = name
		}

		tenantName, ok := tenantNames[bill.TenantID]
		if !ok {
			if tenant, err := s.tenantRepo.GetTenantByID(bill.TenantID); err == nil {
				tenantName = tenant.Name
			}
			tenantNames[bill.TenantID] = tenantName
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), bill.RoomID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tenantName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), monthName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), bill.Year)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), bill.TotalAmount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), bill.PaidAmount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), bill.RemainingAmount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), string(bill.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), bill.DueDate.Format("2006-01-02"))
	}

	for i := 1; i <= len(headers); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, col, col, 15)
	}

	if f.GetSheetName(0) == "Sheet1" && sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("bills_export_%s.xlsx", timestamp)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buffer.Bytes(), filename, nil
}
