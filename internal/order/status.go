package order

import "strings"

// Status mirrors the order lifecycle owned by the backend. The client never
// invents transitions; it only gates which actions it offers for a status.
type Status string

const (
	StatusPaymentPending Status = "PAYMENT_PENDING"
	StatusPending        Status = "PENDING"
	StatusAccepted       Status = "ACCEPTED"
	StatusRejected       Status = "REJECTED"
	StatusCooking        Status = "COOKING"
	StatusReady          Status = "READY"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
	StatusPaymentFailed  Status = "PAYMENT_FAILED"
)

var All = []Status{
	StatusPaymentPending,
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusCooking,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
	StatusPaymentFailed,
}

func (s Status) Valid() bool {
	for _, known := range All {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns a human readable form, e.g. "Payment Pending".
func (s Status) Label() string {
	parts := strings.Split(string(s), "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = parts[i][:1] + strings.ToLower(parts[i][1:])
		}
	}
	return strings.Join(parts, " ")
}
