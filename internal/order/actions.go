package order

import (
	"errors"
	"strings"
)

var (
	ErrEstimatedTimeRequired = errors.New("estimated time must be a positive number of minutes")
	ErrReasonRequired        = errors.New("a reason is required")
)

// CanCustomerCancel reports whether a customer may still cancel the order.
func CanCustomerCancel(s Status) bool {
	return s == StatusPaymentPending || s == StatusPending
}

// CanAccept reports whether an owner may accept the order.
func CanAccept(s Status) bool {
	return s == StatusPending
}

// CanReject reports whether an owner may reject the order.
func CanReject(s Status) bool {
	return s == StatusPending
}

// CanStoreCancel reports whether an owner may cancel on the customer's behalf.
func CanStoreCancel(s Status) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusCooking
}

// CanComplete reports whether an owner may mark the order picked up.
func CanComplete(s Status) bool {
	return s == StatusReady
}

// ValidateEstimatedTime checks the accept-action input before it reaches the
// backend.
func ValidateEstimatedTime(minutes int) error {
	if minutes <= 0 {
		return ErrEstimatedTimeRequired
	}
	return nil
}

// ValidateReason checks reject/cancel reason text before it reaches the
// backend.
func ValidateReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}
