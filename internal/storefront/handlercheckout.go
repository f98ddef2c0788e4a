package storefront

import (
	"errors"
	"net/http"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/billing"
	"github.com/pickupclub/storefront/internal/checkout"
)

type checkoutRequest struct {
	PaymentMethod   backend.PaymentMethod `json:"paymentMethod"`
	PickupTime      time.Time             `json:"pickupTime"`
	NeedDisposables bool                  `json:"needDisposables"`
	Request         string                `json:"request"`
}

type checkoutResponse struct {
	State       checkout.State `json:"state"`
	Order       *backend.Order `json:"order,omitempty"`
	RedirectURL string         `json:"redirectUrl,omitempty"`
	NavigateTo  string         `json:"navigateTo,omitempty"`
	NavDelayMS  int64          `json:"navDelayMs,omitempty"`
}

func toCheckoutResponse(result *checkout.Result) checkoutResponse {
	return checkoutResponse{
		State:       result.State,
		Order:       result.Order,
		RedirectURL: result.RedirectURL,
		NavigateTo:  result.NavigateTo,
		NavDelayMS:  result.NavDelay.Milliseconds(),
	}
}

// BeginCheckout starts a checkout for the current cart. Depending on
// whether a billing key is already registered the response either reports
// a settled order or carries the provider redirect URL.
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BeginCheckout")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	var req checkoutRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = backend.PaymentMethodCard
	}

	result, err := h.checkout.Begin(r.Context(), checkout.Form{
		PaymentMethod:   req.PaymentMethod,
		PickupTime:      req.PickupTime,
		NeedDisposables: req.NeedDisposables,
		Request:         req.Request,
	})
	if err != nil {
		h.respondCheckoutError(w, log, err)
		return
	}

	log.Info("checkout started", "state", result.State)
	apt.RespondSuccess(w, toCheckoutResponse(result))
}

// PickupWindow returns the earliest selectable pickup time.
func (h *Handler) PickupWindow(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PickupWindow")
	defer finish()

	apt.RespondSuccess(w, map[string]time.Time{"minPickupTime": h.checkout.MinPickupTime()})
}

// BillingSuccess is the provider's success callback after a billing-key
// authorization. It saves the key and, when an order rode along on the
// redirect, settles its payment.
func (h *Handler) BillingSuccess(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BillingSuccess")
	defer finish()

	log := h.log(r)

	query := r.URL.Query()
	cb := checkout.Callback{
		AuthKey:       query.Get("authKey"),
		CustomerKey:   query.Get("customerKey"),
		OrderID:       queryInt64(r, "orderId"),
		PaymentMethod: backend.PaymentMethod(query.Get("paymentMethod")),
	}

	result, err := h.checkout.Reconcile(r.Context(), cb)
	if err != nil {
		h.respondCheckoutError(w, log, err)
		return
	}

	log.Info("billing authorization reconciled", "order_id", cb.OrderID)
	apt.RespondSuccess(w, toCheckoutResponse(result))
}

// PaymentFail is the provider's failure callback. The code distinguishes a
// billing-key registration failure from a payment failure.
func (h *Handler) PaymentFail(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PaymentFail")
	defer finish()

	log := h.log(r)

	query := r.URL.Query()
	code := query.Get("code")
	message := query.Get("message")
	if message == "" {
		message = "Payment was not completed"
	}

	kind := "PAYMENT"
	if billing.IsBillingFailure(code) {
		kind = "BILLING_KEY"
	}
	log.Info("payment provider reported failure", "code", code, "kind", kind)

	apt.RespondSuccess(w, map[string]string{
		"kind":       kind,
		"code":       code,
		"message":    message,
		"navigateTo": "/cart",
	})
}

// BillingKeyStatus reports whether the caller has a registered billing key.
func (h *Handler) BillingKeyStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BillingKeyStatus")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	exists, err := h.payments.BillingKeyExists(r.Context())
	if err != nil {
		h.respondBackendError(w, log, err, "Could not check billing key")
		return
	}

	apt.RespondSuccess(w, map[string]bool{"exists": exists})
}

// DeleteBillingKey removes the stored billing key.
func (h *Handler) DeleteBillingKey(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteBillingKey")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	if err := h.payments.DeleteBillingKey(r.Context()); err != nil {
		h.respondBackendError(w, log, err, "Could not remove billing key")
		return
	}

	apt.RespondSuccess(w, map[string]bool{"deleted": true})
}

// PaymentDetail returns the payment record for one of the caller's orders.
func (h *Handler) PaymentDetail(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PaymentDetail")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}
	orderID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	payment, err := h.payments.PaymentDetail(r.Context(), orderID)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load payment")
		return
	}

	apt.RespondSuccess(w, payment)
}

// CancelPayment refunds an order's payment.
func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelPayment")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}
	orderID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	payment, err := h.payments.CancelPayment(r.Context(), orderID, req.Reason)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not cancel payment")
		return
	}

	apt.RespondSuccess(w, payment)
}

// respondCheckoutError maps orchestrator failures onto client-facing
// responses, reserving 5xx for genuinely unexpected ones.
func (h *Handler) respondCheckoutError(w http.ResponseWriter, log apt.Logger, err error) {
	switch {
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		apt.RespondError(w, http.StatusConflict, "A checkout is already in progress")
	case errors.Is(err, checkout.ErrEmptyCart):
		apt.RespondError(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, checkout.ErrNotAuthenticated):
		apt.RespondError(w, http.StatusUnauthorized, "Sign in required")
	case errors.Is(err, checkout.ErrPickupTooSoon):
		apt.RespondError(w, http.StatusBadRequest, "Pickup time must be at least 30 minutes from now")
	case errors.Is(err, checkout.ErrCartCorrupted):
		apt.RespondError(w, http.StatusConflict, "Cart contents could not be read; clear the cart and try again")
	case errors.Is(err, checkout.ErrMissingAuthKey), errors.Is(err, checkout.ErrMissingCustomer):
		apt.RespondError(w, http.StatusBadRequest, "Authorization callback is incomplete")
	case errors.Is(err, billing.ErrClientKeyMissing):
		log.Error("payment provider not configured")
		apt.RespondError(w, http.StatusInternalServerError, "Payments are not available right now")
	case errors.Is(err, backend.ErrSessionExpired):
		h.sessions.Logout()
		apt.RespondError(w, http.StatusUnauthorized, "Session expired, sign in again")
	default:
		h.respondBackendError(w, log, err, "Checkout failed")
	}
}
