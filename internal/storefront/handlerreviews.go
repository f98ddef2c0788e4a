package storefront

import (
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
)

// StoreReviews lists a store's reviews. Public, like the catalog.
func (h *Handler) StoreReviews(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StoreReviews")
	defer finish()

	log := h.log(r)

	storeID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	page, err := h.reviews.StoreReviews(r.Context(), storeID, queryInt(r, "page"), queryInt(r, "size"))
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load reviews")
		return
	}

	apt.RespondSuccess(w, page)
}

// StoreReviewStats returns a store's review count and average rating.
func (h *Handler) StoreReviewStats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StoreReviewStats")
	defer finish()

	log := h.log(r)

	storeID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.reviews.StoreReviewStats(r.Context(), storeID)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load review stats")
		return
	}

	apt.RespondSuccess(w, stats)
}

// MyReviews lists the caller's own reviews.
func (h *Handler) MyReviews(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MyReviews")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	page, err := h.reviews.MyReviews(r.Context(), queryInt(r, "page"), queryInt(r, "size"))
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load reviews")
		return
	}

	apt.RespondSuccess(w, page)
}

// CreateReview posts a review for a completed order.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateReview")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	var req backend.ReviewRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.OrderID <= 0 || req.Rating < 1 || req.Rating > 5 {
		apt.RespondError(w, http.StatusBadRequest, "An order and a rating between 1 and 5 are required")
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), req)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not post review")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, review)
}

// UpdateReview edits one of the caller's reviews.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateReview")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}
	reviewID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req backend.ReviewRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.Rating < 1 || req.Rating > 5 || strings.TrimSpace(req.Content) == "" {
		apt.RespondError(w, http.StatusBadRequest, "A rating between 1 and 5 and some content are required")
		return
	}

	review, err := h.reviews.UpdateReview(r.Context(), reviewID, req)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not update review")
		return
	}

	apt.RespondSuccess(w, review)
}

// DeleteReview removes one of the caller's reviews.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteReview")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}
	reviewID, ok := h.parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.reviews.DeleteReview(r.Context(), reviewID); err != nil {
		h.respondBackendError(w, log, err, "Could not delete review")
		return
	}

	apt.RespondSuccess(w, map[string]bool{"deleted": true})
}
