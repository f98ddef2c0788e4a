package checkout

import (
	"context"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/billing"
	"github.com/pickupclub/storefront/internal/cart"
	"github.com/pickupclub/storefront/internal/session"
)

// MockCartSource is a mock implementation of CartSource for testing.
type MockCartSource struct {
	CurrentFunc  func() *cart.Cart
	TotalFunc    func() int
	ValidateFunc func() error
	ClearFunc    func() error
	ClearCalls   int
}

func (m *MockCartSource) Current() *cart.Cart {
	if m.CurrentFunc != nil {
		return m.CurrentFunc()
	}
	return nil
}

func (m *MockCartSource) Total() int {
	if m.TotalFunc != nil {
		return m.TotalFunc()
	}
	return 0
}

func (m *MockCartSource) Validate() error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc()
	}
	return nil
}

func (m *MockCartSource) Clear() error {
	m.ClearCalls++
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return nil
}

// MockSessionSource is a mock implementation of SessionSource for testing.
type MockSessionSource struct {
	CurrentUserFunc func() *session.User
}

func (m *MockSessionSource) CurrentUser() *session.User {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc()
	}
	return nil
}

// MockOrdersAPI is a mock implementation of OrdersAPI for testing.
type MockOrdersAPI struct {
	CreateOrderFunc  func(ctx context.Context, req backend.OrderCreateRequest) (*backend.Order, error)
	CreateOrderCalls []backend.OrderCreateRequest
}

func (m *MockOrdersAPI) CreateOrder(ctx context.Context, req backend.OrderCreateRequest) (*backend.Order, error) {
	m.CreateOrderCalls = append(m.CreateOrderCalls, req)
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return &backend.Order{ID: 1, StoreID: req.StoreID, Status: "PAYMENT_PENDING"}, nil
}

// MockPaymentsAPI is a mock implementation of PaymentsAPI for testing.
type MockPaymentsAPI struct {
	BillingKeyExistsFunc func(ctx context.Context) (bool, error)
	SaveBillingKeyFunc   func(ctx context.Context, req backend.SaveBillingKeyRequest) error
	ConfirmPaymentFunc   func(ctx context.Context, req backend.ConfirmPaymentRequest) (*backend.Payment, error)

	BillingKeyExistsCalls int
	SaveBillingKeyCalls   []backend.SaveBillingKeyRequest
	ConfirmPaymentCalls   []backend.ConfirmPaymentRequest
}

func (m *MockPaymentsAPI) BillingKeyExists(ctx context.Context) (bool, error) {
	m.BillingKeyExistsCalls++
	if m.BillingKeyExistsFunc != nil {
		return m.BillingKeyExistsFunc(ctx)
	}
	return false, nil
}

func (m *MockPaymentsAPI) SaveBillingKey(ctx context.Context, req backend.SaveBillingKeyRequest) error {
	m.SaveBillingKeyCalls = append(m.SaveBillingKeyCalls, req)
	if m.SaveBillingKeyFunc != nil {
		return m.SaveBillingKeyFunc(ctx, req)
	}
	return nil
}

func (m *MockPaymentsAPI) ConfirmPayment(ctx context.Context, req backend.ConfirmPaymentRequest) (*backend.Payment, error) {
	m.ConfirmPaymentCalls = append(m.ConfirmPaymentCalls, req)
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(ctx, req)
	}
	return &backend.Payment{OrderID: req.OrderID, Amount: req.PaymentAmount}, nil
}

// MockRedirectBuilder is a mock implementation of RedirectBuilder for testing.
type MockRedirectBuilder struct {
	AuthorizationURLFunc  func(params billing.AuthParams) (string, error)
	AuthorizationURLCalls []billing.AuthParams
}

func (m *MockRedirectBuilder) AuthorizationURL(params billing.AuthParams) (string, error) {
	m.AuthorizationURLCalls = append(m.AuthorizationURLCalls, params)
	if m.AuthorizationURLFunc != nil {
		return m.AuthorizationURLFunc(params)
	}
	return "https://pay.example.com/billing/authorize?customerKey=" + params.CustomerKey, nil
}
