package storefront

import (
	"net/http"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/order"
	"github.com/pickupclub/storefront/internal/session"
)

// AdminUsers lists registered users across the platform.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminUsers")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}

	page, err := h.admin.AdminUsers(r.Context(), queryInt(r, "page"), queryInt(r, "size"))
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load users")
		return
	}

	apt.RespondSuccess(w, page)
}

// AdminOrders lists orders across the platform.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminOrders")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}

	q, ok := h.orderQuery(w, r)
	if !ok {
		return
	}
	page, err := h.admin.AdminOrders(r.Context(), q)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load orders")
		return
	}

	apt.RespondSuccess(w, page)
}

// SetUserRole changes a user's platform role.
func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetUserRole")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}
	userID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Role session.Role `json:"role"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if !req.Role.Valid() {
		apt.RespondError(w, http.StatusBadRequest, "Unknown role")
		return
	}

	user, err := h.admin.SetUserRole(r.Context(), userID, req.Role)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not change role")
		return
	}

	log.Info("user role changed", "user_id", userID, "role", req.Role)
	apt.RespondSuccess(w, user)
}

// DeleteUser removes a user account from the platform.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteUser")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}
	userID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(r.Context(), userID); err != nil {
		h.respondBackendError(w, log, err, "Could not delete user")
		return
	}

	log.Info("user deleted", "user_id", userID)
	apt.RespondSuccess(w, map[string]bool{"deleted": true})
}

// AdminUpdateOrderStatus overrides an order's status from the admin side.
func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminUpdateOrderStatus")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}
	orderID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status order.Status `json:"status"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if !req.Status.Valid() {
		apt.RespondError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	updated, err := h.admin.AdminUpdateOrderStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not update order")
		return
	}

	log.Info("order status overridden", "order_id", orderID, "status", req.Status)
	apt.RespondSuccess(w, updated)
}

// AdminCancelOrder cancels any order on the platform with a reason.
func (h *Handler) AdminCancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminCancelOrder")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
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
	if err := order.ValidateReason(req.Reason); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "A cancellation reason is required")
		return
	}

	updated, err := h.admin.AdminCancelOrder(r.Context(), orderID, req.Reason)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not cancel order")
		return
	}

	log.Info("order cancelled by admin", "order_id", orderID)
	apt.RespondSuccess(w, updated)
}

// AdminStores lists stores across the platform, pending ones included.
func (h *Handler) AdminStores(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminStores")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}

	page, err := h.admin.AdminStores(r.Context(), queryInt(r, "page"), queryInt(r, "size"))
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load stores")
		return
	}

	apt.RespondSuccess(w, page)
}

// ApproveStore approves a pending store registration.
func (h *Handler) ApproveStore(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ApproveStore")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}
	storeID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	store, err := h.admin.ApproveStore(r.Context(), storeID)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not approve store")
		return
	}

	log.Info("store approved", "store_id", storeID)
	apt.RespondSuccess(w, store)
}

// RejectStore declines a pending store registration with a reason.
func (h *Handler) RejectStore(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RejectStore")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}
	storeID, ok := h.parseIDParam(w, r, "id")
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

	store, err := h.admin.RejectStore(r.Context(), storeID, req.Reason)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not reject store")
		return
	}

	log.Info("store rejected", "store_id", storeID)
	apt.RespondSuccess(w, store)
}

// AdminUpdateStore edits a store's listing from the admin side.
func (h *Handler) AdminUpdateStore(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminUpdateStore")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}
	storeID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req backend.StoreUpdateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.Name == "" {
		apt.RespondError(w, http.StatusBadRequest, "Store name is required")
		return
	}

	store, err := h.admin.UpdateStore(r.Context(), storeID, req)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not update store")
		return
	}

	log.Info("store updated by admin", "store_id", storeID)
	apt.RespondSuccess(w, store)
}

// AdminDeleteStore removes a store listing entirely.
func (h *Handler) AdminDeleteStore(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminDeleteStore")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}
	storeID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.admin.DeleteStore(r.Context(), storeID); err != nil {
		h.respondBackendError(w, log, err, "Could not delete store")
		return
	}

	log.Info("store deleted", "store_id", storeID)
	apt.RespondSuccess(w, map[string]bool{"deleted": true})
}

// AdminStats returns the platform dashboard counters.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminStats")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleManager, session.RoleMaster) {
		return
	}

	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load platform stats")
		return
	}

	apt.RespondSuccess(w, stats)
}
