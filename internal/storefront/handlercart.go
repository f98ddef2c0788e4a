package storefront

import (
	"errors"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"

	"github.com/pickupclub/storefront/internal/cart"
)

type cartItemRequest struct {
	StoreID         string            `json:"storeId"`
	StoreName       string            `json:"storeName"`
	Menu            cart.Menu         `json:"menu"`
	Quantity        int               `json:"quantity"`
	SelectedOptions []cart.MenuOption `json:"selectedOptions"`
	// Replace acknowledges dropping the current cart when the item comes
	// from a different store.
	Replace bool `json:"replace"`
}

type cartView struct {
	Cart      *cart.Cart `json:"cart"`
	Total     int        `json:"total"`
	ItemCount int        `json:"itemCount"`
}

func (h *Handler) cartView() cartView {
	return cartView{
		Cart:      h.carts.Current(),
		Total:     h.carts.Total(),
		ItemCount: h.carts.ItemCount(),
	}
}

// GetCart returns the current cart with its derived totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	apt.RespondSuccess(w, h.cartView())
}

// AddCartItem adds a line to the cart. Items from a different store are
// rejected with a conflict unless the caller set replace, which clears the
// cart first.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddCartItem")
	defer finish()

	log := h.log(r)

	var req cartItemRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	err := h.carts.AddItem(req.StoreID, req.StoreName, req.Menu, req.Quantity, req.SelectedOptions)
	if errors.Is(err, cart.ErrDifferentStore) && req.Replace {
		if err := h.carts.Clear(); err != nil {
			log.Error("cannot clear cart for store switch", "error", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not update cart")
			return
		}
		err = h.carts.AddItem(req.StoreID, req.StoreName, req.Menu, req.Quantity, req.SelectedOptions)
	}
	switch {
	case errors.Is(err, cart.ErrDifferentStore):
		apt.RespondError(w, http.StatusConflict, "Cart holds items from another store; confirm replacing it")
		return
	case errors.Is(err, cart.ErrInvalidMenu), errors.Is(err, cart.ErrInvalidQty):
		apt.RespondError(w, http.StatusBadRequest, "Invalid cart item")
		return
	case err != nil:
		log.Error("cannot add cart item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update cart")
		return
	}

	apt.RespondSuccess(w, h.cartView())
}

// UpdateCartItem changes a line's quantity. Zero or less removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateCartItem")
	defer finish()

	log := h.log(r)

	menuID := chi.URLParam(r, "menuID")
	if menuID == "" {
		apt.RespondError(w, http.StatusBadRequest, "Invalid menuID parameter")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if err := h.carts.UpdateQuantity(menuID, req.Quantity); err != nil {
		log.Error("cannot update cart quantity", "error", err, "menu_id", menuID)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update cart")
		return
	}

	apt.RespondSuccess(w, h.cartView())
}

// RemoveCartItem drops every line for a menu.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveCartItem")
	defer finish()

	log := h.log(r)

	menuID := chi.URLParam(r, "menuID")
	if menuID == "" {
		apt.RespondError(w, http.StatusBadRequest, "Invalid menuID parameter")
		return
	}

	if err := h.carts.RemoveItem(menuID); err != nil {
		log.Error("cannot remove cart item", "error", err, "menu_id", menuID)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update cart")
		return
	}

	apt.RespondSuccess(w, h.cartView())
}

// ClearCart empties the cart and removes its persisted record.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	log := h.log(r)

	if err := h.carts.Clear(); err != nil {
		log.Error("cannot clear cart", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not clear cart")
		return
	}

	apt.RespondSuccess(w, h.cartView())
}
