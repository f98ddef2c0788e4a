package storefront

import (
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/session"
)

// ListStores returns a page of stores, filtered by keyword or category.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListStores")
	defer finish()

	log := h.log(r)

	q := backend.ListQuery{
		Keyword:    strings.TrimSpace(r.URL.Query().Get("keyword")),
		CategoryID: queryInt64(r, "categoryId"),
		Page:       queryInt(r, "page"),
		Size:       queryInt(r, "size"),
	}

	page, err := h.catalog.ListStores(r.Context(), q)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load stores")
		return
	}

	apt.RespondSuccess(w, page)
}

func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetStore")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	store, err := h.catalog.GetStore(r.Context(), id)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load store")
		return
	}

	apt.RespondSuccess(w, store)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()

	log := h.log(r)

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load categories")
		return
	}

	apt.RespondCollection(w, categories, "category")
}

func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenus")
	defer finish()

	log := h.log(r)

	storeID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	menus, err := h.catalog.ListMenus(r.Context(), storeID)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load menus")
		return
	}

	apt.RespondCollection(w, menus, "menu")
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenu")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	menu, err := h.catalog.GetMenu(r.Context(), id)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load menu")
		return
	}

	apt.RespondSuccess(w, menu)
}

// Owner menu management. The backend enforces store ownership; the role
// check here just keeps customers from hitting it at all.

func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenu")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	storeID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req backend.MenuRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Price < 0 {
		apt.RespondError(w, http.StatusBadRequest, "Menu name and a non-negative price are required")
		return
	}

	menu, err := h.catalog.CreateMenu(r.Context(), storeID, req)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not create menu")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, menu)
}

func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenu")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	menuID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req backend.MenuRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	menu, err := h.catalog.UpdateMenu(r.Context(), menuID, req)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not update menu")
		return
	}

	apt.RespondSuccess(w, menu)
}

func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenu")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	menuID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteMenu(r.Context(), menuID); err != nil {
		h.respondBackendError(w, log, err, "Could not delete menu")
		return
	}

	apt.RespondSuccess(w, map[string]bool{"deleted": true})
}

func (h *Handler) CreateMenuOption(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenuOption")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	menuID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req backend.MenuOptionRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apt.RespondError(w, http.StatusBadRequest, "Option name is required")
		return
	}

	option, err := h.catalog.CreateMenuOption(r.Context(), menuID, req)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not create menu option")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, option)
}

func (h *Handler) DeleteMenuOption(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuOption")
	defer finish()

	log := h.log(r)

	if !h.requireRole(w, session.RoleOwner, session.RoleManager, session.RoleMaster) {
		return
	}
	menuID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	optionID, ok := h.parseIDParam(w, r, "optionID")
	if !ok {
		return
	}

	if err := h.catalog.DeleteMenuOption(r.Context(), menuID, optionID); err != nil {
		h.respondBackendError(w, log, err, "Could not delete menu option")
		return
	}

	apt.RespondSuccess(w, map[string]bool{"deleted": true})
}
