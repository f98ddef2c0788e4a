package order

import (
	"errors"
	"testing"
)

func TestStatusValid(t *testing.T) {
	for _, s := range All {
		if !s.Valid() {
			t.Errorf("Valid() = false for %s", s)
		}
	}
	if Status("SHIPPED").Valid() {
		t.Error("Valid() = true for unknown status")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPaymentPending, "Payment Pending"},
		{StatusPending, "Pending"},
		{StatusCooking, "Cooking"},
		{StatusPaymentFailed, "Payment Failed"},
	}

	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestTransitionGating(t *testing.T) {
	tests := []struct {
		name    string
		allowed func(Status) bool
		yes     []Status
	}{
		{
			name:    "customerCancel",
			allowed: CanCustomerCancel,
			yes:     []Status{StatusPaymentPending, StatusPending},
		},
		{
			name:    "accept",
			allowed: CanAccept,
			yes:     []Status{StatusPending},
		},
		{
			name:    "reject",
			allowed: CanReject,
			yes:     []Status{StatusPending},
		},
		{
			name:    "storeCancel",
			allowed: CanStoreCancel,
			yes:     []Status{StatusPending, StatusAccepted, StatusCooking},
		},
		{
			name:    "complete",
			allowed: CanComplete,
			yes:     []Status{StatusReady},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permitted := make(map[Status]bool, len(tt.yes))
			for _, s := range tt.yes {
				permitted[s] = true
			}
			for _, s := range All {
				if got := tt.allowed(s); got != permitted[s] {
					t.Errorf("%s(%s) = %v, want %v", tt.name, s, got, permitted[s])
				}
			}
		})
	}
}

func TestValidateEstimatedTime(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{name: "positive", minutes: 20, wantErr: false},
		{name: "zero", minutes: 0, wantErr: true},
		{name: "negative", minutes: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEstimatedTime(tt.minutes)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEstimatedTime(%d) error = %v, wantErr %v", tt.minutes, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrEstimatedTimeRequired) {
				t.Errorf("error = %v, want ErrEstimatedTimeRequired", err)
			}
		})
	}
}

func TestValidateReason(t *testing.T) {
	if err := ValidateReason("out of stock"); err != nil {
		t.Errorf("ValidateReason() error = %v", err)
	}
	if err := ValidateReason("   "); !errors.Is(err, ErrReasonRequired) {
		t.Errorf("ValidateReason() error = %v, want ErrReasonRequired", err)
	}
}
