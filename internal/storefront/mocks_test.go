package storefront

import (
	"context"
	"time"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/checkout"
	"github.com/pickupclub/storefront/internal/order"
	"github.com/pickupclub/storefront/internal/session"
)

// MockOrderAPI is a mock implementation of OrderAPI for testing.
type MockOrderAPI struct {
	GetOrderFunc            func(ctx context.Context, orderID int64) (*backend.Order, error)
	MyOrdersFunc            func(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error)
	MyActiveOrdersFunc      func(ctx context.Context) ([]backend.Order, error)
	CustomerCancelFunc      func(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	MyStoreOrdersFunc       func(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error)
	MyStoreActiveOrdersFunc func(ctx context.Context) ([]backend.Order, error)
	AcceptFunc              func(ctx context.Context, orderID int64, estimatedTime int) (*backend.Order, error)
	RejectFunc              func(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	StoreCancelFunc         func(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	CompleteFunc            func(ctx context.Context, orderID int64) (*backend.Order, error)

	AcceptCalls           int
	CustomerCancelCalls   int
	CustomerCancelReasons []string
	StoreCancelCalls      int
	MyStoreOrdersQueries  []backend.OrderQuery
}

func (m *MockOrderAPI) GetOrder(ctx context.Context, orderID int64) (*backend.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, orderID)
	}
	return &backend.Order{ID: orderID, Status: "PENDING"}, nil
}

func (m *MockOrderAPI) MyOrders(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error) {
	if m.MyOrdersFunc != nil {
		return m.MyOrdersFunc(ctx, q)
	}
	return &backend.OrderPage{}, nil
}

func (m *MockOrderAPI) MyActiveOrders(ctx context.Context) ([]backend.Order, error) {
	if m.MyActiveOrdersFunc != nil {
		return m.MyActiveOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrderAPI) CustomerCancel(ctx context.Context, orderID int64, reason string) (*backend.Order, error) {
	m.CustomerCancelCalls++
	m.CustomerCancelReasons = append(m.CustomerCancelReasons, reason)
	if m.CustomerCancelFunc != nil {
		return m.CustomerCancelFunc(ctx, orderID, reason)
	}
	return &backend.Order{ID: orderID, Status: "CANCELLED"}, nil
}

func (m *MockOrderAPI) MyStoreOrders(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error) {
	m.MyStoreOrdersQueries = append(m.MyStoreOrdersQueries, q)
	if m.MyStoreOrdersFunc != nil {
		return m.MyStoreOrdersFunc(ctx, q)
	}
	return &backend.OrderPage{}, nil
}

func (m *MockOrderAPI) MyStoreActiveOrders(ctx context.Context) ([]backend.Order, error) {
	if m.MyStoreActiveOrdersFunc != nil {
		return m.MyStoreActiveOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrderAPI) Accept(ctx context.Context, orderID int64, estimatedTime int) (*backend.Order, error) {
	m.AcceptCalls++
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, orderID, estimatedTime)
	}
	return &backend.Order{ID: orderID, Status: "ACCEPTED", EstimatedTime: estimatedTime}, nil
}

func (m *MockOrderAPI) Reject(ctx context.Context, orderID int64, reason string) (*backend.Order, error) {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, orderID, reason)
	}
	return &backend.Order{ID: orderID, Status: "REJECTED", RejectReason: reason}, nil
}

func (m *MockOrderAPI) StoreCancel(ctx context.Context, orderID int64, reason string) (*backend.Order, error) {
	m.StoreCancelCalls++
	if m.StoreCancelFunc != nil {
		return m.StoreCancelFunc(ctx, orderID, reason)
	}
	return &backend.Order{ID: orderID, Status: "CANCELLED", CancelReason: reason}, nil
}

func (m *MockOrderAPI) Complete(ctx context.Context, orderID int64) (*backend.Order, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, orderID)
	}
	return &backend.Order{ID: orderID, Status: "COMPLETED"}, nil
}

// MockAdminAPI is a mock implementation of AdminAPI for testing.
type MockAdminAPI struct {
	AdminUsersFunc             func(ctx context.Context, page, size int) (*backend.AdminUserPage, error)
	SetUserRoleFunc            func(ctx context.Context, userID int64, role session.Role) (*session.User, error)
	DeleteUserFunc             func(ctx context.Context, userID int64) error
	AdminOrdersFunc            func(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error)
	AdminUpdateOrderStatusFunc func(ctx context.Context, orderID int64, status order.Status) (*backend.Order, error)
	AdminCancelOrderFunc       func(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	AdminStoresFunc            func(ctx context.Context, page, size int) (*backend.StorePage, error)
	ApproveStoreFunc           func(ctx context.Context, storeID int64) (*backend.Store, error)
	RejectStoreFunc            func(ctx context.Context, storeID int64, reason string) (*backend.Store, error)
	UpdateStoreFunc            func(ctx context.Context, storeID int64, req backend.StoreUpdateRequest) (*backend.Store, error)
	DeleteStoreFunc            func(ctx context.Context, storeID int64) error
	StatsFunc                  func(ctx context.Context) (*backend.AdminStats, error)

	ApproveStoreCalls int
	RejectStoreCalls  int
	SetUserRoleCalls  int
}

func (m *MockAdminAPI) AdminUsers(ctx context.Context, page, size int) (*backend.AdminUserPage, error) {
	if m.AdminUsersFunc != nil {
		return m.AdminUsersFunc(ctx, page, size)
	}
	return &backend.AdminUserPage{}, nil
}

func (m *MockAdminAPI) AdminOrders(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error) {
	if m.AdminOrdersFunc != nil {
		return m.AdminOrdersFunc(ctx, q)
	}
	return &backend.OrderPage{}, nil
}

func (m *MockAdminAPI) AdminStores(ctx context.Context, page, size int) (*backend.StorePage, error) {
	if m.AdminStoresFunc != nil {
		return m.AdminStoresFunc(ctx, page, size)
	}
	return &backend.StorePage{}, nil
}

func (m *MockAdminAPI) SetUserRole(ctx context.Context, userID int64, role session.Role) (*session.User, error) {
	m.SetUserRoleCalls++
	if m.SetUserRoleFunc != nil {
		return m.SetUserRoleFunc(ctx, userID, role)
	}
	return &session.User{ID: userID, Role: role}, nil
}

func (m *MockAdminAPI) DeleteUser(ctx context.Context, userID int64) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, userID)
	}
	return nil
}

func (m *MockAdminAPI) AdminUpdateOrderStatus(ctx context.Context, orderID int64, status order.Status) (*backend.Order, error) {
	if m.AdminUpdateOrderStatusFunc != nil {
		return m.AdminUpdateOrderStatusFunc(ctx, orderID, status)
	}
	return &backend.Order{ID: orderID, Status: status}, nil
}

func (m *MockAdminAPI) AdminCancelOrder(ctx context.Context, orderID int64, reason string) (*backend.Order, error) {
	if m.AdminCancelOrderFunc != nil {
		return m.AdminCancelOrderFunc(ctx, orderID, reason)
	}
	return &backend.Order{ID: orderID, Status: "CANCELLED", CancelReason: reason}, nil
}

func (m *MockAdminAPI) ApproveStore(ctx context.Context, storeID int64) (*backend.Store, error) {
	m.ApproveStoreCalls++
	if m.ApproveStoreFunc != nil {
		return m.ApproveStoreFunc(ctx, storeID)
	}
	return &backend.Store{ID: storeID, ApprovalStatus: backend.StoreApprovalApproved}, nil
}

func (m *MockAdminAPI) RejectStore(ctx context.Context, storeID int64, reason string) (*backend.Store, error) {
	m.RejectStoreCalls++
	if m.RejectStoreFunc != nil {
		return m.RejectStoreFunc(ctx, storeID, reason)
	}
	return &backend.Store{ID: storeID, ApprovalStatus: backend.StoreApprovalRejected}, nil
}

func (m *MockAdminAPI) UpdateStore(ctx context.Context, storeID int64, req backend.StoreUpdateRequest) (*backend.Store, error) {
	if m.UpdateStoreFunc != nil {
		return m.UpdateStoreFunc(ctx, storeID, req)
	}
	return &backend.Store{ID: storeID, Name: req.Name}, nil
}

func (m *MockAdminAPI) DeleteStore(ctx context.Context, storeID int64) error {
	if m.DeleteStoreFunc != nil {
		return m.DeleteStoreFunc(ctx, storeID)
	}
	return nil
}

func (m *MockAdminAPI) Stats(ctx context.Context) (*backend.AdminStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &backend.AdminStats{}, nil
}

// MockAuthAPI is a mock implementation of AuthAPI for testing.
type MockAuthAPI struct {
	LoginFunc  func(ctx context.Context, req backend.LoginRequest) (*backend.LoginResult, error)
	JoinFunc   func(ctx context.Context, req backend.JoinRequest) error
	MeFunc     func(ctx context.Context) (*session.User, error)
	LogoutFunc func(ctx context.Context) error

	LogoutCalls int
}

func (m *MockAuthAPI) Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &backend.LoginResult{
		User:         session.User{ID: 42, Username: req.Username, Nickname: "Mina", Role: session.RoleCustomer},
		AccessToken:  "access",
		RefreshToken: "refresh",
	}, nil
}

func (m *MockAuthAPI) Join(ctx context.Context, req backend.JoinRequest) error {
	if m.JoinFunc != nil {
		return m.JoinFunc(ctx, req)
	}
	return nil
}

func (m *MockAuthAPI) Me(ctx context.Context) (*session.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return &session.User{ID: 42, Username: "mina", Role: session.RoleCustomer}, nil
}

func (m *MockAuthAPI) Logout(ctx context.Context) error {
	m.LogoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

// MockCheckouter is a mock implementation of Checkouter for testing.
type MockCheckouter struct {
	BeginFunc     func(ctx context.Context, form checkout.Form) (*checkout.Result, error)
	ReconcileFunc func(ctx context.Context, cb checkout.Callback) (*checkout.Result, error)

	BeginCalls     []checkout.Form
	ReconcileCalls []checkout.Callback
}

func (m *MockCheckouter) Begin(ctx context.Context, form checkout.Form) (*checkout.Result, error) {
	m.BeginCalls = append(m.BeginCalls, form)
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, form)
	}
	return &checkout.Result{State: checkout.StateCompleted, NavigateTo: "/orders", NavDelay: checkout.NavDelay}, nil
}

func (m *MockCheckouter) Reconcile(ctx context.Context, cb checkout.Callback) (*checkout.Result, error) {
	m.ReconcileCalls = append(m.ReconcileCalls, cb)
	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx, cb)
	}
	return &checkout.Result{State: checkout.StateCompleted, NavigateTo: "/orders", NavDelay: checkout.NavDelay}, nil
}

func (m *MockCheckouter) MinPickupTime() time.Time {
	return time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)
}
