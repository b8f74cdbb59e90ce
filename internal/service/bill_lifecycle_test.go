package service

import (
	"testing"
	"time"

	"dormitory-be-svc/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestApplyPaymentTransition(t *testing.T) {
	tests := []struct {
		name   string
		status models.BillStatus
		total  string
		paid   string
		want   models.BillStatus
	}{
		{"no payment stays pending", models.BillStatusPending, "1000", "0", models.BillStatusPending},
		{"partial payment", models.BillStatusPending, "1000", "400", models.BillStatusPartiallyPaid},
		{"full payment", models.BillStatusPending, "1000", "1000", models.BillStatusPaid},
		{"partial on overdue stays overdue", models.BillStatusOverdue, "1000", "400", models.BillStatusOverdue},
		{"full on overdue settles", models.BillStatusOverdue, "1000", "1000", models.BillStatusPaid},
		{"partial on partially paid", models.BillStatusPartiallyPaid, "1000", "700", models.BillStatusPartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := &models.Bill{
				Status:      tt.status,
				TotalAmount: dec(tt.total),
				PaidAmount:  dec(tt.paid),
			}
			applyPaymentTransition(bill)
			assert.Equal(t, tt.want, bill.Status)
		})
	}
}

func TestTransitionOverdueIfDue(t *testing.T) {
	due := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		status      models.BillStatus
		now         time.Time
		wantChanged bool
		wantStatus  models.BillStatus
	}{
		{"pending past due flips", models.BillStatusPending, due.AddDate(0, 0, 1), true, models.BillStatusOverdue},
		{"exactly at due date does not flip", models.BillStatusPending, due, false, models.BillStatusPending},
		{"pending before due", models.BillStatusPending, due.AddDate(0, 0, -1), false, models.BillStatusPending},
		{"already overdue is a no-op", models.BillStatusOverdue, due.AddDate(0, 0, 1), false, models.BillStatusOverdue},
		{"paid never flips", models.BillStatusPaid, due.AddDate(0, 0, 1), false, models.BillStatusPaid},
		{"cancelled never flips", models.BillStatusCancelled, due.AddDate(0, 0, 1), false, models.BillStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := &models.Bill{Status: tt.status, DueDate: due}
			changed := transitionOverdueIfDue(bill, tt.now)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, bill.Status)
		})
	}
}
