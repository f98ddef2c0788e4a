package storefront

import (
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/backend"
)

// Login authenticates against the backend and installs the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Login")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req backend.LoginRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		apt.RespondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	result, err := h.auth.Login(ctx, req)
	if err != nil {
		h.respondBackendError(w, log, err, "Could not sign in")
		return
	}

	h.sessions.SignIn(&result.User, result.AccessToken, result.RefreshToken)
	log.Info("user signed in", "user_id", result.User.ID, "role", result.User.Role)
	apt.RespondSuccess(w, result.User)
}

// Join registers a new account. It does not sign the user in.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Join")
	defer finish()

	log := h.log(r)

	var req backend.JoinRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.Username == "" || req.Password == "" || req.Nickname == "" {
		apt.RespondError(w, http.StatusBadRequest, "Username, password and nickname are required")
		return
	}

	if err := h.auth.Join(r.Context(), req); err != nil {
		h.respondBackendError(w, log, err, "Could not create account")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, map[string]string{"username": req.Username})
}

// Logout ends the session locally and, best effort, on the backend.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Logout")
	defer finish()

	log := h.log(r)

	if h.sessions.IsAuthenticated() {
		if err := h.auth.Logout(r.Context()); err != nil {
			log.Info("backend logout failed, clearing local session anyway", "error", err)
		}
	}
	h.sessions.Logout()

	apt.RespondSuccess(w, map[string]bool{"loggedOut": true})
}

// Me returns the session user, refreshed from the backend when possible.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Me")
	defer finish()

	log := h.log(r)

	if _, ok := h.requireUser(w); !ok {
		return
	}

	user, err := h.auth.Me(r.Context())
	if err != nil {
		h.respondBackendError(w, log, err, "Could not load profile")
		return
	}

	h.sessions.SetUser(user)
	apt.RespondSuccess(w, user)
}
