package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/cart"
	"github.com/pickupclub/storefront/internal/checkout"
	"github.com/pickupclub/storefront/internal/order"
	"github.com/pickupclub/storefront/internal/session"
)

const MaxBodyBytes = 1 << 20

// AuthAPI covers the backend's authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResult, error)
	Join(ctx context.Context, req backend.JoinRequest) error
	Me(ctx context.Context) (*session.User, error)
	Logout(ctx context.Context) error
}

// CatalogAPI covers store, category and menu reads plus the owner's menu
// management.
type CatalogAPI interface {
	ListStores(ctx context.Context, q backend.ListQuery) (*backend.StorePage, error)
	GetStore(ctx context.Context, storeID int64) (*backend.Store, error)
	ListCategories(ctx context.Context) ([]backend.Category, error)
	ListMenus(ctx context.Context, storeID int64) ([]backend.Menu, error)
	GetMenu(ctx context.Context, menuID int64) (*backend.Menu, error)
	CreateMenu(ctx context.Context, storeID int64, req backend.MenuRequest) (*backend.Menu, error)
	UpdateMenu(ctx context.Context, menuID int64, req backend.MenuRequest) (*backend.Menu, error)
	DeleteMenu(ctx context.Context, menuID int64) error
	CreateMenuOption(ctx context.Context, menuID int64, req backend.MenuOptionRequest) (*backend.MenuOption, error)
	DeleteMenuOption(ctx context.Context, menuID, optionID int64) error
}

// OrderAPI covers the order listing and lifecycle surface.
type OrderAPI interface {
	GetOrder(ctx context.Context, orderID int64) (*backend.Order, error)
	MyOrders(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error)
	MyActiveOrders(ctx context.Context) ([]backend.Order, error)
	CustomerCancel(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	MyStoreOrders(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error)
	MyStoreActiveOrders(ctx context.Context) ([]backend.Order, error)
	Accept(ctx context.Context, orderID int64, estimatedTime int) (*backend.Order, error)
	Reject(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	StoreCancel(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	Complete(ctx context.Context, orderID int64) (*backend.Order, error)
}

// PaymentAPI covers the payment records surface outside checkout itself.
type PaymentAPI interface {
	BillingKeyExists(ctx context.Context) (bool, error)
	DeleteBillingKey(ctx context.Context) error
	CancelPayment(ctx context.Context, orderID int64, reason string) (*backend.Payment, error)
	PaymentDetail(ctx context.Context, orderID int64) (*backend.Payment, error)
}

// ReviewAPI covers store reviews.
type ReviewAPI interface {
	StoreReviews(ctx context.Context, storeID int64, page, size int) (*backend.ReviewPage, error)
	StoreReviewStats(ctx context.Context, storeID int64) (*backend.ReviewStats, error)
	MyReviews(ctx context.Context, page, size int) (*backend.ReviewPage, error)
	CreateReview(ctx context.Context, req backend.ReviewRequest) (*backend.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, req backend.ReviewRequest) (*backend.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}

// SalesAPI covers the owner's revenue dashboard.
type SalesAPI interface {
	SalesSummary(ctx context.Context, r backend.SalesRange) (*backend.SalesSummary, error)
	DailySales(ctx context.Context, r backend.SalesRange) ([]backend.DailySales, error)
	PopularMenus(ctx context.Context, r backend.SalesRange, limit int) ([]backend.PopularMenu, error)
}

// AdminAPI covers the platform administration surface.
type AdminAPI interface {
	AdminUsers(ctx context.Context, page, size int) (*backend.AdminUserPage, error)
	SetUserRole(ctx context.Context, userID int64, role session.Role) (*session.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	AdminOrders(ctx context.Context, q backend.OrderQuery) (*backend.OrderPage, error)
	AdminUpdateOrderStatus(ctx context.Context, orderID int64, status order.Status) (*backend.Order, error)
	AdminCancelOrder(ctx context.Context, orderID int64, reason string) (*backend.Order, error)
	AdminStores(ctx context.Context, page, size int) (*backend.StorePage, error)
	ApproveStore(ctx context.Context, storeID int64) (*backend.Store, error)
	RejectStore(ctx context.Context, storeID int64, reason string) (*backend.Store, error)
	UpdateStore(ctx context.Context, storeID int64, req backend.StoreUpdateRequest) (*backend.Store, error)
	DeleteStore(ctx context.Context, storeID int64) error
	Stats(ctx context.Context) (*backend.AdminStats, error)
}

// Checkouter drives checkout begin and reconcile.
type Checkouter interface {
	Begin(ctx context.Context, form checkout.Form) (*checkout.Result, error)
	Reconcile(ctx context.Context, cb checkout.Callback) (*checkout.Result, error)
	MinPickupTime() time.Time
}

type Handler struct {
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
	sessions *session.Store
	carts    *cart.Store
	checkout Checkouter
	auth     AuthAPI
	catalog  CatalogAPI
	orders   OrderAPI
	payments PaymentAPI
	reviews  ReviewAPI
	sales    SalesAPI
	admin    AdminAPI
}

type HandlerDeps struct {
	Sessions *session.Store
	Carts    *cart.Store
	Checkout Checkouter
	Auth     AuthAPI
	Catalog  CatalogAPI
	Orders   OrderAPI
	Payments PaymentAPI
	Reviews  ReviewAPI
	Sales    SalesAPI
	Admin    AdminAPI
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
		sessions: hd.Sessions,
		carts:    hd.Carts,
		checkout: hd.Checkout,
		auth:     hd.Auth,
		catalog:  hd.Catalog,
		orders:   hd.Orders,
		payments: hd.Payments,
		reviews:  hd.Reviews,
		sales:    hd.Sales,
		admin:    hd.Admin,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/join", h.Join)
		r.Post("/logout", h.Logout)
	})
	r.Get("/me", h.Me)

	r.Route("/stores", func(r chi.Router) {
		r.Get("/", h.ListStores)
		r.Get("/{id}", h.GetStore)
		r.Get("/{id}/menus", h.ListMenus)
		r.Post("/{id}/menus", h.CreateMenu)
		r.Get("/{id}/reviews", h.StoreReviews)
		r.Get("/{id}/reviews/stats", h.StoreReviewStats)
	})
	r.Get("/categories", h.ListCategories)
	r.Route("/menus", func(r chi.Router) {
		r.Get("/{id}", h.GetMenu)
		r.Put("/{id}", h.UpdateMenu)
		r.Delete("/{id}", h.DeleteMenu)
		r.Post("/{id}/options", h.CreateMenuOption)
		r.Delete("/{id}/options/{optionID}", h.DeleteMenuOption)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddCartItem)
		r.Patch("/items/{menuID}", h.UpdateCartItem)
		r.Delete("/items/{menuID}", h.RemoveCartItem)
	})

	r.Post("/checkout", h.BeginCheckout)
	r.Get("/checkout/pickup-window", h.PickupWindow)
	r.Get("/mypage/billing/success", h.BillingSuccess)
	r.Get("/payments/fail", h.PaymentFail)
	r.Route("/payments", func(r chi.Router) {
		r.Get("/billing-key", h.BillingKeyStatus)
		r.Delete("/billing-key", h.DeleteBillingKey)
		r.Get("/orders/{id}", h.PaymentDetail)
		r.Post("/orders/{id}/cancel", h.CancelPayment)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/my", h.MyOrders)
		r.Get("/my/active", h.MyActiveOrders)
		r.Get("/store", h.MyStoreOrders)
		r.Get("/store/active", h.MyStoreActiveOrders)
		r.Get("/{id}", h.GetOrder)
		r.Patch("/{id}/cancel", h.CancelOrder)
		r.Patch("/{id}/accept", h.AcceptOrder)
		r.Patch("/{id}/reject", h.RejectOrder)
		r.Patch("/{id}/store-cancel", h.StoreCancelOrder)
		r.Patch("/{id}/complete", h.CompleteOrder)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/my", h.MyReviews)
		r.Post("/", h.CreateReview)
		r.Put("/{id}", h.UpdateReview)
		r.Delete("/{id}", h.DeleteReview)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Get("/summary", h.SalesSummary)
		r.Get("/daily", h.DailySales)
		r.Get("/popular-menus", h.PopularMenus)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/users", h.AdminUsers)
		r.Patch("/users/{id}/role", h.SetUserRole)
		r.Delete("/users/{id}", h.DeleteUser)
		r.Get("/orders", h.AdminOrders)
		r.Patch("/orders/{id}/status", h.AdminUpdateOrderStatus)
		r.Patch("/orders/{id}/cancel", h.AdminCancelOrder)
		r.Get("/stores", h.AdminStores)
		r.Patch("/stores/{id}/approve", h.ApproveStore)
		r.Patch("/stores/{id}/reject", h.RejectStore)
		r.Put("/stores/{id}", h.AdminUpdateStore)
		r.Delete("/stores/{id}", h.AdminDeleteStore)
		r.Get("/stats", h.AdminStats)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

// requireUser ensures the caller has an authenticated session. It writes
// the error response itself when there is none.
func (h *Handler) requireUser(w http.ResponseWriter) (*session.User, bool) {
	user := h.sessions.CurrentUser()
	if user == nil {
		apt.RespondError(w, http.StatusUnauthorized, "Sign in required")
		return nil, false
	}
	return user, true
}

// requireRole ensures the caller holds one of the given roles.
func (h *Handler) requireRole(w http.ResponseWriter, roles ...session.Role) bool {
	if _, ok := h.requireUser(w); !ok {
		return false
	}
	if !h.sessions.HasRole(roles...) {
		apt.RespondError(w, http.StatusForbidden, "Insufficient permissions")
		return false
	}
	return true
}

// parseIDParam reads a numeric chi URL parameter.
func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		apt.RespondError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// decodePayload reads a JSON body into dst, capping its size.
func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	return true
}

// respondBackendError translates a backend failure into this service's own
// response, preserving the upstream status and message where available.
// A session expiry also drops the local session.
func (h *Handler) respondBackendError(w http.ResponseWriter, log apt.Logger, err error, fallback string) {
	if errors.Is(err, backend.ErrSessionExpired) {
		h.sessions.Logout()
		apt.RespondError(w, http.StatusUnauthorized, "Session expired, sign in again")
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		apt.RespondError(w, status, backend.Message(err, fallback))
		return
	}
	log.Error("backend request failed", "error", err)
	apt.RespondError(w, http.StatusBadGateway, fallback)
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func queryInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

var _ Checkouter = (*checkout.Orchestrator)(nil)
