package service

import "errors"

// Billing engine error taxonomy. Validation errors are caller mistakes and
// are never retried; configuration errors block billing until an operator
// fixes the dormitory's rate data.
var (
	// ErrNonMonotonicReading is returned when a meter reading is below the
	// previous reading for the same room and utility.
	ErrNonMonotonicReading = errors.New("meter reading is below the previous reading")

	// ErrMissingReference is returned when a non-cash payment carries no
	// transaction reference.
	ErrMissingReference = errors.New("payment reference is required for non-cash payments")

	// ErrOverpaymentRejected is returned when a payment is non-positive or
	// would push the paid amount past the bill total. Overpayments must be
	// handled explicitly (e.g. as credit), never clamped.
	ErrOverpaymentRejected = errors.New("payment amount exceeds the bill's remaining amount")

	// ErrDuplicateBillPeriod is returned when a non-cancelled bill already
	// exists for the room and billing period.
	ErrDuplicateBillPeriod = errors.New("a bill already exists for this room and period")

	// ErrBillNotPayable is returned when the bill's status does not accept
	// payments (paid or cancelled).
	ErrBillNotPayable = errors.New("bill does not accept payments in its current status")

	// ErrConfigMissing is returned when the dormitory has no rate
	// configuration document.
	ErrConfigMissing = errors.New("no rate configuration exists for this dormitory")

	// ErrUnknownRoomType is returned when a room's type is not in the
	// resolved room type catalog.
	ErrUnknownRoomType = errors.New("room type is not in the rate configuration catalog")

	// ErrUtilityRateMissing is returned when an unbilled meter reading
	// exists but the matching unit price is not configured. Billing zero
	// for a metered utility is never acceptable.
	ErrUtilityRateMissing = errors.New("a meter reading exists but no utility unit price is configured")
)

// ErrorCode returns the stable error code for an engine error, or an empty
// string for errors outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNonMonotonicReading):
		return "NON_MONOTONIC_READING"
	case errors.Is(err, ErrMissingReference):
		return "MISSING_REFERENCE"
	case errors.Is(err, ErrOverpaymentRejected):
		return "OVERPAYMENT_REJECTED"
	case errors.Is(err, ErrDuplicateBillPeriod):
		return "DUPLICATE_BILL_PERIOD"
	case errors.Is(err, ErrBillNotPayable):
		return "BILL_NOT_PAYABLE"
	case errors.Is(err, ErrConfigMissing):
		return "CONFIG_MISSING"
	case errors.Is(err, ErrUnknownRoomType):
		return "UNKNOWN_ROOM_TYPE"
	case errors.Is(err, ErrUtilityRateMissing):
		return "UTILITY_RATE_MISSING"
	}
	return ""
}

// IsValidationError reports whether err is caused by malformed caller input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNonMonotonicReading) ||
		errors.Is(err, ErrMissingReference) ||
		errors.Is(err, ErrOverpaymentRejected) ||
		errors.Is(err, ErrDuplicateBillPeriod) ||
		errors.Is(err, ErrBillNotPayable)
}

// IsConfigError reports whether err is caused by inconsistent rate data
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing) ||
		errors.Is(err, ErrUnknownRoomType) ||
		errors.Is(err, ErrUtilityRateMissing)
}
