package storefront

import (
	"net/http"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/session"
)

const salesDateLayout = "2006-01-02"

func salesRangeFrom(r *http.Request) (backend.SalesRange, error) {
	var out backend.SalesRange
	query := r.URL.Query()
	if raw := query.Get("startDate"); raw != "" {
		t, err := time.Parse(salesDateLayout, raw)
		if err != nil {
			return out, err
		}
		out.StartDate = t
	}
	if raw := query.Get("endDate"); raw != "" {
		t, err := time.Parse(salesDateLayout, raw)
		if err != nil {
			return out, err
		}
		out.EndDate = t
	}
	return out, nil
}

// SalesSummary returns the owner's aggregate revenue for a date range.
func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SalesSummary")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}

	sr, err := salesRangeFrom(r)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Dates must use the YYYY-MM-DD format")
		return
	}

	summary, err := h.sales.SalesSummary(r.Context(), sr)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load sales summary")
		return
	}

	apt.RespondSuccess(w, summary)
}

// DailySales returns the owner's revenue broken down by day.
func (h *Handler) DailySales(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DailySales")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}

	sr, err := salesRangeFrom(r)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Dates must use the YYYY-MM-DD format")
		return
	}

	daily, err := h.sales.DailySales(r.Context(), sr)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load daily sales")
		return
	}

	apt.RespondCollection(w, daily, "dailySales")
}

// PopularMenus returns the owner's best-selling menus for a date range.
func (h *Handler) PopularMenus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PopularMenus")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}

	sr, err := salesRangeFrom(r)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Dates must use the YYYY-MM-DD format")
		return
	}

	menus, err := h.sales.PopularMenus(r.Context(), sr, queryInt(r, "limit"))
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load popular menus")
		return
	}

	apt.RespondCollection(w, menus, "popularMenu")
}
