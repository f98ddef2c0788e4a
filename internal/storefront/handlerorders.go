package storefront

import (
	"net/http"
	"strings"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/order"
	"github.com/pickupclub/storefront/internal/session"
)

func orderQueryFrom(r *http.Request) (backend.OrderQuery, error) {
	q := backend.OrderQuery{
		Status:     order.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		CustomerID: queryInt64(r, "customerId"),
		Page:       queryInt(r, "page"),
		Size:       queryInt(r, "size"),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, err
		}
		q.Date = date
	}
	return q, nil
}

// orderQuery parses the listing filters, answering 400 itself on a bad date.
func (h *Handler) orderQuery(w http.ResponseWriter, r *http.Request) (backend.OrderQuery, bool) {
	q, err := orderQueryFrom(r)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Dates must use the YYYY-MM-DD format")
		return q, false
	}
	return q, true
}

// GetOrder returns one order visible to the caller.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load order")
		return
	}

	apt.RespondSuccess(w, o)
}

// MyOrders lists the caller's order history.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MyOrders")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	q, ok := h.orderQuery(w, r)
	if !ok {
		return
	}
	page, err := h.orders.MyOrders(r.Context(), q)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load orders")
		return
	}

	apt.RespondSuccess(w, page)
}

// MyActiveOrders lists the caller's unsettled orders.
func (h *Handler) MyActiveOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MyActiveOrders")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	orders, err := h.orders.MyActiveOrders(r.Context())
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load orders")
		return
	}

	apt.RespondCollection(w, orders, "order")
}

// CancelOrder cancels the caller's own order. The change is only allowed
// while the store has not started working on it; the current backend state
// decides, never a locally cached one.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if err := order.ValidateReason(req.Reason); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "A cancellation reason is required")
		return
	}

	current, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load order")
		return
	}
	if !order.CanCustomerCancel(current.Status) {
		apt.RespondError(w, http.StatusConflict, "Order can no longer be cancelled")
		return
	}

	updated, err := h.orders.CustomerCancel(r.Context(), id, req.Reason)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not cancel order")
		return
	}

	log.Info("order cancelled by customer", "order_id", id)
	apt.RespondSuccess(w, updated)
}

// MyStoreOrders lists orders placed at the owner's store.
func (h *Handler) MyStoreOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MyStoreOrders")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}

	q, ok := h.orderQuery(w, r)
	if !ok {
		return
	}
	page, err := h.orders.MyStoreOrders(r.Context(), q)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load store orders")
		return
	}

	apt.RespondSuccess(w, page)
}

// MyStoreActiveOrders lists the owner's in-flight orders.
func (h *Handler) MyStoreActiveOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MyStoreActiveOrders")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}

	orders, err := h.orders.MyStoreActiveOrders(r.Context())
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load store orders")
		return
	}

	apt.RespondCollection(w, orders, "order")
}

// AcceptOrder moves a pending order into cooking with an estimated time.
func (h *Handler) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AcceptOrder")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		EstimatedTime int `json:"estimatedTime"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if err := order.ValidateEstimatedTime(req.EstimatedTime); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Estimated time must be a positive number of minutes")
		return
	}

	if !h.ensureTransition(w, r, id, order.CanAccept, "Order is not awaiting a decision") {
		return
	}

	updated, err := h.orders.Accept(r.Context(), id, req.EstimatedTime)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not accept order")
		return
	}

	log.Info("order accepted", "order_id", id, "estimated_time", req.EstimatedTime)
	apt.RespondSuccess(w, updated)
}

// RejectOrder declines a pending order with a reason.
func (h *Handler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RejectOrder")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if err := order.ValidateReason(req.Reason); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "A rejection reason is required")
		return
	}

	if !h.ensureTransition(w, r, id, order.CanReject, "Order is not awaiting a decision") {
		return
	}

	updated, err := h.orders.Reject(r.Context(), id, req.Reason)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not reject order")
		return
	}

	log.Info("order rejected", "order_id", id)
	apt.RespondSuccess(w, updated)
}

// StoreCancelOrder cancels an order from the store's side.
func (h *Handler) StoreCancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StoreCancelOrder")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if err := order.ValidateReason(req.Reason); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "A cancellation reason is required")
		return
	}

	if !h.ensureTransition(w, r, id, order.CanStoreCancel, "Order can no longer be cancelled by the store") {
		return
	}

	updated, err := h.orders.StoreCancel(r.Context(), id, req.Reason)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not cancel order")
		return
	}

	log.Info("order cancelled by store", "order_id", id)
	apt.RespondSuccess(w, updated)
}

// CompleteOrder marks a ready order as picked up.
func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompleteOrder")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if !h.ensureTransition(w, r, id, order.CanComplete, "Order is not ready for pickup") {
		return
	}

	updated, err := h.orders.Complete(r.Context(), id)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not complete order")
		return
	}

	log.Info("order completed", "order_id", id)
	apt.RespondSuccess(w, updated)
}

// ensureTransition re-reads the order and checks the requested transition
// against its current status. It writes the conflict response itself.
func (h *Handler) ensureTransition(w http.ResponseWriter, r *http.Request, orderID int64, allowed func(order.Status) bool, conflictMsg string) bool {
	log := h.log(r)

	current, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load order")
		return false
	}
	if !allowed(current.Status) {
		apt.RespondError(w, http.StatusConflict, conflictMsg)
		return false
	}
	return true
}
