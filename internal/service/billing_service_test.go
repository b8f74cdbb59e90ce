package service

import (
	"testing"
	"time"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type billingFixture struct {
	svc        BillingService
	billStore  *fakeBillStore
	tenantRepo *fakeTenantRepo
	meterRepo  *fakeMeterReadingRepo
	roomRepo   *fakeRoomRepo
}

func newBillingFixture(t *testing.T, rooms []*models.Room, tenants []*models.Tenant) *billingFixture {
	t.Helper()

	cfg := testRateConfig()
	rateRepo := newFakeRateConfigRepo(cfg.Config, &models.RoomType{ID: 10, DormitoryID: 1, Name: "Standard", BasePrice: dec("3000")})
	rateSvc := NewRateConfigService(rateRepo, newTestLogger())

	f := &billingFixture{
		billStore:  newFakeBillStore(),
		tenantRepo: newFakeTenantRepo(tenants...),
		meterRepo:  newFakeMeterReadingRepo(),
		roomRepo:   newFakeRoomRepo(rooms...),
	}
	f.svc = NewBillingService(rateSvc, f.roomRepo, f.tenantRepo, f.meterRepo, f.billStore, testBillingConfig(), newTestLogger())
	return f
}

func TestCreateBill_FinalizationSideEffects(t *testing.T) {
	room := testRoom()
	tenant := &models.Tenant{
		ID:                5,
		RoomID:            room.ID,
		NumberOfResidents: 2,
		SpecialItems: models.SpecialItems{
			{ID: "si-deposit", Name: "Deposit", Amount: dec("500"), Once: true},
			{ID: "si-fridge", Name: "Fridge rental", Amount: dec("150"), RemainingBillingCycles: 2},
		},
	}
	f := newBillingFixture(t, []*models.Room{room}, []*models.Tenant{tenant})

	f.meterRepo.unbilled[meterKey{room.ID, models.MeterTypeElectric}] = &models.MeterReading{
		ID:        7,
		RoomID:    room.ID,
		Type:      models.MeterTypeElectric,
		UnitsUsed: dec("50"),
	}

	bill, err := f.svc.CreateBill(room.ID, 3, 2026, nil)
	require.NoError(t, err)

	// rent 3000 + floor 200 + internet 200 + deposit 500 + fridge 150 + electric 400
	assert.True(t, dec("4450").Equal(bill.TotalAmount), "total was %s", bill.TotalAmount)
	assert.Equal(t, models.BillStatusPending, bill.Status)
	assert.True(t, bill.PaidAmount.IsZero())
	assert.True(t, bill.RemainingAmount.Equal(bill.TotalAmount))
	assert.Equal(t, 1, bill.Version)
	require.NotNil(t, bill.DocumentID)

	// the consumed electric reading is marked billed
	assert.Equal(t, []uint{7}, f.billStore.markedBilled)

	// special item accounting: one-shot consumed, recurring decremented
	require.Len(t, f.billStore.savedTenants, 1)
	saved := f.billStore.savedTenants[0]
	assert.NotNil(t, saved.SpecialItems[0].ConsumedAt)
	assert.Equal(t, 1, saved.SpecialItems[1].RemainingBillingCycles)

	// the in-memory tenant the calculator read stays untouched
	assert.Nil(t, tenant.SpecialItems[0].ConsumedAt)
	assert.Equal(t, 2, tenant.SpecialItems[1].RemainingBillingCycles)
}

func TestCreateBill_DefaultDueDate(t *testing.T) {
	room := testRoom()
	f := newBillingFixture(t, []*models.Room{room}, []*models.Tenant{{ID: 5, RoomID: room.ID}})

	bill, err := f.svc.CreateBill(room.ID, 12, 2026, nil)
	require.NoError(t, err)

	// configured due day in the month after the billing period
	assert.Equal(t, time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC), bill.DueDate)
}

func TestCreateBill_RejectsDuplicatePeriod(t *testing.T) {
	room := testRoom()
	f := newBillingFixture(t, []*models.Room{room}, []*models.Tenant{{ID: 5, RoomID: room.ID}})

	_, err := f.svc.CreateBill(room.ID, 3, 2026, nil)
	require.NoError(t, err)

	_, err = f.svc.CreateBill(room.ID, 3, 2026, nil)
	assert.ErrorIs(t, err, ErrDuplicateBillPeriod)
	assert.Len(t, f.billStore.bills, 1)
}

func TestCreateBill_MapsStoreDuplicate(t *testing.T) {
	// a concurrent creation that loses the transactional re-check surfaces
	// as the same duplicate-period error
	room := testRoom()
	f := newBillingFixture(t, []*models.Room{room}, []*models.Tenant{{ID: 5, RoomID: room.ID}})
	f.billStore.failCreateForDup = true

	_, err := f.svc.CreateBill(room.ID, 3, 2026, nil)
	assert.ErrorIs(t, err, ErrDuplicateBillPeriod)
}

func TestCreateBill_ConfigMissing(t *testing.T) {
	room := testRoom()
	room.DormitoryID = 99
	f := newBillingFixture(t, []*models.Room{room}, []*models.Tenant{{ID: 5, RoomID: room.ID}})

	_, err := f.svc.CreateBill(room.ID, 3, 2026, nil)
	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestCreateMonthlyBills_Report(t *testing.T) {
	roomOK := testRoom()
	roomSkipped := testRoom()
	roomSkipped.ID = 2
	roomSkipped.Number = "202"
	roomFailed := testRoom()
	roomFailed.ID = 3
	roomFailed.Number = "203"
	roomVacant := testRoom()
	roomVacant.ID = 4
	roomVacant.Status = models.RoomStatusAvailable

	tenants := []*models.Tenant{
		{ID: 5, RoomID: roomOK.ID},
		{ID: 6, RoomID: roomSkipped.ID},
	}
	f := newBillingFixture(t, []*models.Room{roomOK, roomSkipped, roomFailed, roomVacant}, tenants)
	f.tenantRepo.errors[roomFailed.ID] = gorm.ErrInvalidDB

	// pre-existing bill for the second room
	_, err := f.svc.CreateBill(roomSkipped.ID, 3, 2026, nil)
	require.NoError(t, err)

	report, err := f.svc.CreateMonthlyBills(1, 3, 2026, nil)
	require.NoError(t, err)

	// the vacant room is not in the occupied set at all
	assert.Equal(t, 3, report.TotalRooms)
	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, 1, report.FailedCount)
	assert.Len(t, report.BillIDs, 1)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "room 203")
}

func TestMarkOverdueIfDue(t *testing.T) {
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	pastDue := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     models.BillStatus
		dueDate    time.Time
		wantStatus models.BillStatus
	}{
		{"pending past due", models.BillStatusPending, pastDue, models.BillStatusOverdue},
		{"partially paid past due", models.BillStatusPartiallyPaid, pastDue, models.BillStatusOverdue},
		{"pending before due", models.BillStatusPending, future, models.BillStatusPending},
		{"paid stays paid", models.BillStatusPaid, pastDue, models.BillStatusPaid},
		{"cancelled stays cancelled", models.BillStatusCancelled, pastDue, models.BillStatusCancelled},
		{"already overdue is a no-op", models.BillStatusOverdue, pastDue, models.BillStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := testRoom()
			f := newBillingFixture(t, []*models.Room{room}, nil)
			f.billStore.bills[1] = &models.Bill{
				ID:      1,
				RoomID:  room.ID,
				Status:  tt.status,
				DueDate: tt.dueDate,
				Version: 1,
			}

			bill, err := f.svc.MarkOverdueIfDue(1, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, bill.Status)
			assert.Equal(t, tt.wantStatus, f.billStore.bills[1].Status)
		})
	}
}

func TestMarkOverdueIfDue_RetriesLostWriteOnce(t *testing.T) {
	room := testRoom()
	f := newBillingFixture(t, []*models.Room{room}, nil)
	f.billStore.bills[1] = &models.Bill{
		ID:      1,
		RoomID:  room.ID,
		Status:  models.BillStatusPending,
		DueDate: time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC),
		Version: 1,
	}
	f.billStore.queueUpdateErr(repository.ErrVersionConflict)

	bill, err := f.svc.MarkOverdueIfDue(1, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusOverdue, bill.Status)
}

func TestExportBillsToExcel(t *testing.T) {
	room := testRoom()
	tenant := &models.Tenant{ID: 5, RoomID: room.ID, Name: "Somchai", NumberOfResidents: 1}
	f := newBillingFixture(t, []*models.Room{room}, []*models.Tenant{tenant})

	_, err := f.svc.CreateBill(room.ID, 3, 2026, nil)
	require.NoError(t, err)

	content, filename, err := f.svc.ExportBillsToExcel(repository.BillFilters{})
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Contains(t, filename, "bills_export_")
	assert.Contains(t, filename, ".xlsx")
}

func TestSweepOverdueBills(t *testing.T) {
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	pastDue := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)

	room := testRoom()
	f := newBillingFixture(t, []*models.Room{room}, nil)
	f.billStore.bills[1] = &models.Bill{ID: 1, Status: models.BillStatusPending, DueDate: pastDue, Version: 1}
	f.billStore.bills[2] = &models.Bill{ID: 2, Status: models.BillStatusPartiallyPaid, DueDate: pastDue, Version: 1}
	f.billStore.bills[3] = &models.Bill{ID: 3, Status: models.BillStatusPaid, DueDate: pastDue, Version: 1}
	f.billStore.bills[4] = &models.Bill{ID: 4, Status: models.BillStatusPending, DueDate: now.AddDate(0, 0, 5), Version: 1}

	transitioned, err := f.svc.SweepOverdueBills(now)
	require.NoError(t, err)

	assert.Equal(t, 2, transitioned)
	assert.Equal(t, models.BillStatusOverdue, f.billStore.bills[1].Status)
	assert.Equal(t, models.BillStatusOverdue, f.billStore.bills[2].Status)
	assert.Equal(t, models.BillStatusPaid, f.billStore.bills[3].Status)
	assert.Equal(t, models.BillStatusPending, f.billStore.bills[4].Status)
}
