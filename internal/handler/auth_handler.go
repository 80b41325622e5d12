package handler

import (
	"net/http"

	"github.com/formhive/formhive/internal/auth"
	"github.com/formhive/formhive/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.setCookies(w, result)
	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.setCookies(w, result)
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookies(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := auth.GetCaller(r.Context())
	user, err := h.svc.Me(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller := auth.GetCaller(r.Context())
	user, err := h.svc.Me(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"email":     user.Email,
		"full_name": user.FullName,
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	caller := auth.GetCaller(r.Context())
	user, err := h.svc.UpdateProfile(r.Context(), caller.UserID, caller.Email, req.FullName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// Refresh the display cookie so client-side code shows the new name.
	auth.SetDisplayCookie(w, *user, h.svc.SessionTTL())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) setCookies(w http.ResponseWriter, result *service.AuthResult) {
	ttl := h.svc.SessionTTL()
	auth.SetSessionCookie(w, result.Token, ttl)
	auth.SetDisplayCookie(w, result.User, ttl)
}
