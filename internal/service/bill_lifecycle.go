package service

import (
	"time"

	"dormitory-be-svc/internal/models"
)

// applyPaymentTransition moves a bill's status after its paid amount changed.
// This is the only place payment-driven transitions happen.
//
// Overdue is sticky: a partial payment on an overdue bill leaves it overdue,
// only full settlement moves it to paid. This must stay an explicit branch —
// recomputing status from the paid ratio would silently cure the overdue flag.
func applyPaymentTransition(bill *models.Bill) {
	switch {
	case bill.PaidAmount.GreaterThanOrEqual(bill.TotalAmount):
		bill.Status = models.BillStatusPaid
	case bill.Status == models.BillStatusOverdue:
		// stays overdue
	case bill.PaidAmount.IsPositive():
		bill.Status = models.BillStatusPartiallyPaid
	default:
		bill.Status = models.BillStatusPending
	}
}

// transitionOverdueIfDue flips a bill to overdue when its due date has
// passed and it is not fully paid. Returns true when the status changed;
// calling it again on an already-overdue bill is a no-op, so the periodic
// sweep is safe to retry.
func transitionOverdueIfDue(bill *models.Bill, now time.Time) bool {
	switch bill.Status {
	case models.BillStatusPaid, models.BillStatusCancelled, models.BillStatusOverdue:
		return false
	}
	if now.After(bill.DueDate) {
		bill.Status = models.BillStatusOverdue
		return true
	}
	return false
}
