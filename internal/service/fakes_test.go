package service

import (
	"time"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/pkg/logger"

	"gorm.io/gorm"
)

func newTestLogger() *logger.Logger {
	return logger.NewLogger("panic", "text")
}

// fakeRoomRepo implements repository.RoomRepository in memory
type fakeRoomRepo struct {
	rooms map[uint]*models.Room
}

func newFakeRoomRepo(rooms ...*models.Room) *fakeRoomRepo {
	r := &fakeRoomRepo{rooms: make(map[uint]*models.Room)}
	for _, room := range rooms {
		r.rooms[room.ID] = room
	}
	return r
}

func (r *fakeRoomRepo) GetRoomByID(id uint) (*models.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return room, nil
}

func (r *fakeRoomRepo) GetOccupiedRoomsByDormitoryID(dormitoryID uint) ([]*models.Room, error) {
	var rooms []*models.Room
	for _, room := range r.rooms {
		if room.DormitoryID == dormitoryID && room.Status == models.RoomStatusOccupied {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

// fakeTenantRepo implements repository.TenantRepository in memory
type fakeTenantRepo struct {
	byRoom map[uint]*models.Tenant
	errors map[uint]error
}

func newFakeTenantRepo(tenants ...*models.Tenant) *fakeTenantRepo {
	r := &fakeTenantRepo{
		byRoom: make(map[uint]*models.Tenant),
		errors: make(map[uint]error),
	}
	for _, tenant := range tenants {
		r.byRoom[tenant.RoomID] = tenant
	}
	return r
}

func (r *fakeTenantRepo) GetTenantByID(id uint) (*models.Tenant, error) {
	for _, tenant := range r.byRoom {
		if tenant.ID == id {
			return tenant, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTenantRepo) GetTenantByRoomID(roomID uint) (*models.Tenant, error) {
	if err, ok := r.errors[roomID]; ok {
		return nil, err
	}
	tenant, ok := r.byRoom[roomID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tenant, nil
}

type meterKey struct {
	roomID uint
	typ    models.MeterType
}

// fakeMeterReadingRepo implements repository.MeterReadingRepository in memory
type fakeMeterReadingRepo struct {
	billed      map[meterKey]*models.MeterReading
	unbilled    map[meterKey]*models.MeterReading
	savedAlerts []*models.MeterAlert
	saveErrs    []error
	nextID      uint
}

func newFakeMeterReadingRepo() *fakeMeterReadingRepo {
	return &fakeMeterReadingRepo{
		billed:   make(map[meterKey]*models.MeterReading),
		unbilled: make(map[meterKey]*models.MeterReading),
		nextID:   1,
	}
}

func (r *fakeMeterReadingRepo) GetLatestBilledReading(roomID uint, meterType models.MeterType) (*models.MeterReading, error) {
	return r.billed[meterKey{roomID, meterType}], nil
}

func (r *fakeMeterReadingRepo) GetUnbilledReading(roomID uint, meterType models.MeterType) (*models.MeterReading, error) {
	return r.unbilled[meterKey{roomID, meterType}], nil
}

// queueSaveErr forces the next reading save to fail with err
func (r *fakeMeterReadingRepo) queueSaveErr(err error) {
	r.saveErrs = append(r.saveErrs, err)
}

// SaveReadingWithAlerts mirrors the repository's in-transaction replacement
// of the pending unbilled row
func (r *fakeMeterReadingRepo) SaveReadingWithAlerts(reading *models.MeterReading, alerts []*models.MeterAlert) error {
	if len(r.saveErrs) > 0 {
		err := r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
		return err
	}

	key := meterKey{reading.RoomID, reading.Type}
	if pending, ok := r.unbilled[key]; ok {
		reading.ID = pending.ID
		reading.CreatedAt = pending.CreatedAt
	} else if reading.ID == 0 {
		reading.ID = r.nextID
		r.nextID++
	}
	r.unbilled[key] = reading
	r.savedAlerts = append(r.savedAlerts, alerts...)
	return nil
}

func (r *fakeMeterReadingRepo) ListReadingsByRoom(roomID uint, meterType *models.MeterType) ([]*models.MeterReading, error) {
	var readings []*models.MeterReading
	collect := func(m map[meterKey]*models.MeterReading) {
		for key, reading := range m {
			if key.roomID != roomID {
				continue
			}
			if meterType != nil && key.typ != *meterType {
				continue
			}
			readings = append(readings, reading)
		}
	}
	collect(r.billed)
	collect(r.unbilled)
	return readings, nil
}

// fakeBillStore implements repository.BillRepository and
// repository.PaymentRepository over the same in-memory state, mirroring the
// shared bills and payments tables.
type fakeBillStore struct {
	bills            map[uint]*models.Bill
	payments         []*models.Payment
	markedBilled     []uint
	savedTenants     []*models.Tenant
	updateErrs       []error
	nextID           uint
	createCalls      int
	failCreateForDup bool
}

func newFakeBillStore(bills ...*models.Bill) *fakeBillStore {
	s := &fakeBillStore{
		bills:  make(map[uint]*models.Bill),
		nextID: 1,
	}
	for _, bill := range bills {
		s.bills[bill.ID] = bill
		if bill.ID >= s.nextID {
			s.nextID = bill.ID + 1
		}
	}
	return s
}

// queueUpdateErr forces the next versioned bill update to fail with err
func (s *fakeBillStore) queueUpdateErr(err error) {
	s.updateErrs = append(s.updateErrs, err)
}

func (s *fakeBillStore) popUpdateErr() error {
	if len(s.updateErrs) == 0 {
		return nil
	}
	err := s.updateErrs[0]
	s.updateErrs = s.updateErrs[1:]
	return err
}

func (s *fakeBillStore) GetBillByID(id uint) (*models.Bill, error) {
	bill, ok := s.bills[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *bill
	return &copied, nil
}

func (s *fakeBillStore) FindActiveBillByRoomPeriod(roomID uint, month, year int) (*models.Bill, error) {
	for _, bill := range s.bills {
		if bill.RoomID == roomID && bill.Month == month && bill.Year == year &&
			bill.Status != models.BillStatusCancelled {
			copied := *bill
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeBillStore) CreateBillFinalized(bill *models.Bill, consumedReadingIDs []uint, tenant *models.Tenant) error {
	s.createCalls++
	if s.failCreateForDup {
		return repository.ErrDuplicateBill
	}
	if existing, _ := s.FindActiveBillByRoomPeriod(bill.RoomID, bill.Month, bill.Year); existing != nil {
		return repository.ErrDuplicateBill
	}

	bill.ID = s.nextID
	s.nextID++
	copied := *bill
	s.bills[bill.ID] = &copied

	s.markedBilled = append(s.markedBilled, consumedReadingIDs...)
	if tenant != nil {
		s.savedTenants = append(s.savedTenants, tenant)
	}
	return nil
}

func (s *fakeBillStore) UpdateBillWithVersion(bill *models.Bill) error {
	if err := s.popUpdateErr(); err != nil {
		return err
	}

	stored, ok := s.bills[bill.ID]
	if !ok || stored.Version != bill.Version {
		return repository.ErrVersionConflict
	}

	stored.PaidAmount = bill.PaidAmount
	stored.RemainingAmount = bill.RemainingAmount
	stored.Status = bill.Status
	stored.Version++
	bill.Version++
	return nil
}

func (s *fakeBillStore) SavePaymentAndBill(payment *models.Payment, bill *models.Bill) error {
	if err := s.popUpdateErr(); err != nil {
		return err
	}
	for _, p := range s.payments {
		if p.DocumentID == payment.DocumentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if err := s.UpdateBillWithVersion(bill); err != nil {
		return err
	}
	s.payments = append(s.payments, payment)
	return nil
}

func (s *fakeBillStore) ListBills(filters repository.BillFilters, page, limit int) ([]*models.Bill, int64, error) {
	var bills []*models.Bill
	for _, bill := range s.bills {
		if filters.RoomID != nil && bill.RoomID != *filters.RoomID {
			continue
		}
		if filters.Status != nil && bill.Status != *filters.Status {
			continue
		}
		copied := *bill
		bills = append(bills, &copied)
	}
	return bills, int64(len(bills)), nil
}

func (s *fakeBillStore) ListUnpaidDueBills(now time.Time) ([]*models.Bill, error) {
	var bills []*models.Bill
	for _, bill := range s.bills {
		if !bill.DueDate.Before(now) {
			continue
		}
		if bill.Status != models.BillStatusPending && bill.Status != models.BillStatusPartiallyPaid {
			continue
		}
		copied := *bill
		bills = append(bills, &copied)
	}
	return bills, nil
}

func (s *fakeBillStore) GetPaymentByDocumentID(documentID string) (*models.Payment, error) {
	for _, p := range s.payments {
		if p.DocumentID == documentID {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakeBillStore) ListPaymentsByBill(billID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	for _, p := range s.payments {
		if p.BillID == billID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// fakeRateConfigRepo implements repository.RateConfigRepository in memory
type fakeRateConfigRepo struct {
	configs   map[uint]*models.RateConfig
	roomTypes map[uint][]*models.RoomType
}

func newFakeRateConfigRepo(cfg *models.RateConfig, roomTypes ...*models.RoomType) *fakeRateConfigRepo {
	r := &fakeRateConfigRepo{
		configs:   make(map[uint]*models.RateConfig),
		roomTypes: make(map[uint][]*models.RoomType),
	}
	if cfg != nil {
		r.configs[cfg.DormitoryID] = cfg
		r.roomTypes[cfg.DormitoryID] = roomTypes
	}
	return r
}

func (r *fakeRateConfigRepo) GetByDormitoryID(dormitoryID uint) (*models.RateConfig, error) {
	cfg, ok := r.configs[dormitoryID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cfg, nil
}

func (r *fakeRateConfigRepo) GetRoomTypesByDormitoryID(dormitoryID uint) ([]*models.RoomType, error) {
	return r.roomTypes[dormitoryID], nil
}

// recordingPublisher captures emitted payment events
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) PaymentRecorded(bill *models.Bill, payment *models.Payment) {
	p.events = append(p.events, payment.DocumentID)
}
