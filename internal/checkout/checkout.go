package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/billing"
	"github.com/pickupclub/storefront/internal/cart"
	"github.com/pickupclub/storefront/internal/session"
)

// MinPickupLead is the earliest a pickup may be scheduled relative to now.
const MinPickupLead = 30 * time.Minute

// NavDelay is how long the caller should keep the confirmation visible
// before navigating away after a settled checkout.
const NavDelay = 3 * time.Second

var (
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrPickupTooSoon    = errors.New("pickup time too soon")
	ErrCartCorrupted    = errors.New("cart contents unreadable")
	ErrMissingAuthKey   = errors.New("authorization callback missing authKey")
	ErrMissingCustomer  = errors.New("authorization callback missing customerKey")
)

// CartSource is the slice of the cart store checkout needs.
type CartSource interface {
	Current() *cart.Cart
	Total() int
	Validate() error
	Clear() error
}

// SessionSource resolves the acting user.
type SessionSource interface {
	CurrentUser() *session.User
}

// OrdersAPI opens orders on the backend.
type OrdersAPI interface {
	CreateOrder(ctx context.Context, req backend.OrderCreateRequest) (*backend.Order, error)
}

// PaymentsAPI covers the billing-key and payment surface of the backend.
type PaymentsAPI interface {
	BillingKeyExists(ctx context.Context) (bool, error)
	SaveBillingKey(ctx context.Context, req backend.SaveBillingKeyRequest) error
	ConfirmPayment(ctx context.Context, req backend.ConfirmPaymentRequest) (*backend.Payment, error)
}

// RedirectBuilder builds the provider authorization redirect.
type RedirectBuilder interface {
	AuthorizationURL(params billing.AuthParams) (string, error)
}

// State says how a checkout attempt ended.
type State string

const (
	// StateCompleted means the payment settled in-linely with a stored
	// billing key.
	StateCompleted State = "COMPLETED"
	// StateRedirect means the caller must visit the provider to register
	// a billing key before the payment can settle.
	StateRedirect State = "REDIRECT"
)

// Form is the customer's checkout input.
type Form struct {
	PaymentMethod   backend.PaymentMethod
	PickupTime      time.Time
	NeedDisposables bool
	Request         string
}

// Result is the outcome of Begin or Reconcile.
type Result struct {
	State       State
	Order       *backend.Order
	RedirectURL string
	NavigateTo  string
	NavDelay    time.Duration
}

// Callback carries the provider's billing authorization redirect back into
// the orchestrator.
type Callback struct {
	AuthKey       string
	CustomerKey   string
	OrderID       int64
	PaymentMethod backend.PaymentMethod
}

// Orchestrator drives a checkout from cart to settled payment. At most one
// checkout may be in flight at a time.
type Orchestrator struct {
	carts    CartSource
	sessions SessionSource
	orders   OrdersAPI
	payments PaymentsAPI
	redirect RedirectBuilder
	logger   apt.Logger

	successURL string
	failURL    string

	mu   sync.Mutex
	busy bool

	now func() time.Time
}

func NewOrchestrator(carts CartSource, sessions SessionSource, orders OrdersAPI, payments PaymentsAPI, redirect RedirectBuilder, successURL, failURL string, logger apt.Logger) *Orchestrator {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Orchestrator{
		carts:      carts,
		sessions:   sessions,
		orders:     orders,
		payments:   payments,
		redirect:   redirect,
		logger:     logger,
		successURL: successURL,
		failURL:    failURL,
		now:        time.Now,
	}
}

// MinPickupTime returns the earliest selectable pickup time.
func (o *Orchestrator) MinPickupTime() time.Time {
	return o.now().Add(MinPickupLead)
}

func (o *Orchestrator) acquire() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return ErrCheckoutInFlight
	}
	o.busy = true
	return nil
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// Begin validates the cart and session, opens the order, and either settles
// the payment against a stored billing key or hands back a provider
// redirect. The billing-key check happens exactly once, before the order is
// created, so the branch cannot flip mid-checkout.
func (o *Orchestrator) Begin(ctx context.Context, form Form) (*Result, error) {
	if err := o.acquire(); err != nil {
		return nil, err
	}
	defer o.release()

	current := o.carts.Current()
	if current == nil || len(current.Items) == 0 {
		return nil, ErrEmptyCart
	}
	user := o.sessions.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if form.PickupTime.Before(o.now().Add(MinPickupLead)) {
		return nil, ErrPickupTooSoon
	}
	if err := o.carts.Validate(); err != nil {
		return nil, ErrCartCorrupted
	}

	hasBillingKey, err := o.payments.BillingKeyExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("billing key lookup failed: %w", err)
	}

	req, err := buildOrderRequest(current, form)
	if err != nil {
		return nil, err
	}
	created, err := o.orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order failed: %w", err)
	}

	if !hasBillingKey {
		redirectURL, err := o.redirect.AuthorizationURL(billing.AuthParams{
			CustomerKey:   billing.NewCustomerKey(user.ID),
			CustomerName:  user.Nickname,
			OrderID:       created.ID,
			PaymentMethod: string(form.PaymentMethod),
			SuccessURL:    o.successURL,
			FailURL:       o.failURL,
		})
		if err != nil {
			return nil, err
		}
		return &Result{State: StateRedirect, Order: created, RedirectURL: redirectURL}, nil
	}

	if err := o.confirm(ctx, user, created, form.PaymentMethod, int64(o.carts.Total()), current); err != nil {
		return nil, err
	}
	if err := o.carts.Clear(); err != nil {
		o.logger.Error("clear cart after checkout failed", "error", err)
	}
	return &Result{
		State:      StateCompleted,
		Order:      created,
		NavigateTo: "/orders",
		NavDelay:   NavDelay,
	}, nil
}

// Reconcile resumes a checkout after the provider redirected back with a
// billing authorization. Missing keys or a lost session are terminal: the
// billing key is never saved in that case.
func (o *Orchestrator) Reconcile(ctx context.Context, cb Callback) (*Result, error) {
	if cb.AuthKey == "" {
		return nil, ErrMissingAuthKey
	}
	if cb.CustomerKey == "" {
		return nil, ErrMissingCustomer
	}
	user := o.sessions.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	if err := o.payments.SaveBillingKey(ctx, backend.SaveBillingKeyRequest{
		UserID:      user.ID,
		AuthKey:     cb.AuthKey,
		CustomerKey: cb.CustomerKey,
	}); err != nil {
		return nil, fmt.Errorf("save billing key failed: %w", err)
	}

	if cb.OrderID == 0 {
		// Registration without a pending order: the customer came from
		// billing management, not from a checkout.
		return &Result{State: StateCompleted, NavigateTo: "/mypage/billing", NavDelay: NavDelay}, nil
	}

	current := o.carts.Current()
	method := cb.PaymentMethod
	if method == "" {
		method = backend.PaymentMethodCard
	}
	// Amount zero: the backend resolves the charge from the order itself,
	// since the cart may have been lost across the redirect.
	if _, err := o.payments.ConfirmPayment(ctx, confirmRequest(user, cb.OrderID, method, 0, current)); err != nil {
		return nil, fmt.Errorf("confirm payment failed: %w", err)
	}
	if err := o.carts.Clear(); err != nil {
		o.logger.Error("clear cart after checkout failed", "error", err)
	}
	return &Result{
		State:      StateCompleted,
		NavigateTo: "/orders",
		NavDelay:   NavDelay,
	}, nil
}

func (o *Orchestrator) confirm(ctx context.Context, user *session.User, created *backend.Order, method backend.PaymentMethod, amount int64, current *cart.Cart) error {
	if _, err := o.payments.ConfirmPayment(ctx, confirmRequest(user, created.ID, method, amount, current)); err != nil {
		return fmt.Errorf("confirm payment failed: %w", err)
	}
	return nil
}

func confirmRequest(user *session.User, orderID int64, method backend.PaymentMethod, amount int64, current *cart.Cart) backend.ConfirmPaymentRequest {
	req := backend.ConfirmPaymentRequest{
		UserID:        user.ID,
		OrderID:       orderID,
		PaymentMethod: method,
		PaymentAmount: amount,
	}
	if current != nil {
		req.Title = current.StoreName + " order"
		names := make([]string, 0, len(current.Items))
		for _, item := range current.Items {
			names = append(names, item.Menu.Name)
		}
		req.Content = strings.Join(names, ", ")
	}
	return req
}

func buildOrderRequest(current *cart.Cart, form Form) (backend.OrderCreateRequest, error) {
	storeID, err := strconv.ParseInt(current.StoreID, 10, 64)
	if err != nil {
		return backend.OrderCreateRequest{}, ErrCartCorrupted
	}
	items := make([]backend.OrderItem, 0, len(current.Items))
	for _, item := range current.Items {
		menuID, err := strconv.ParseInt(item.Menu.ID, 10, 64)
		if err != nil {
			return backend.OrderCreateRequest{}, ErrCartCorrupted
		}
		options := make([]backend.OrderItemOption, 0, len(item.SelectedOptions))
		for _, opt := range item.SelectedOptions {
			optionID, err := strconv.ParseInt(opt.ID, 10, 64)
			if err != nil {
				return backend.OrderCreateRequest{}, ErrCartCorrupted
			}
			options = append(options, backend.OrderItemOption{MenuOptionID: optionID})
		}
		items = append(items, backend.OrderItem{
			MenuID:   menuID,
			Quantity: item.Quantity,
			Options:  options,
		})
	}
	return backend.OrderCreateRequest{
		StoreID:         storeID,
		Items:           items,
		PickupTime:      form.PickupTime,
		NeedDisposables: form.NeedDisposables,
		Request:         strings.TrimSpace(form.Request),
	}, nil
}
