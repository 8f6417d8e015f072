package api

import (
	"net/http"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler handles POST /auth/register. A successful registration
// also logs the new user in.
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, err = h.svc.Identity.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sess, err := h.svc.Identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// LoginHandler handles POST /auth/login
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sess, err := h.svc.Identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// LogoutHandler handles POST /auth/logout
func (h *HandlerProvider) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Identity.Logout(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MeHandler handles GET /me
func (h *HandlerProvider) MeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

// RefreshHandler handles POST /me/refresh
func (h *HandlerProvider) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Identity.Refresh(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}
