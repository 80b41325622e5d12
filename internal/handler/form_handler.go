package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formhive/formhive/internal/auth"
	"github.com/formhive/formhive/internal/service"
)

type FormHandler struct {
	svc *service.FormService
}

func NewFormHandler(svc *service.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := auth.GetCaller(r.Context())
	form, err := h.svc.Create(r.Context(), caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

// Get serves the editing view: the full form record for the owner or a
// grantee, 403 for anyone else, 404 for unknown slugs.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	caller := auth.GetCaller(r.Context())
	form, err := h.svc.GetForEdit(r.Context(), slug, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var upd service.FormUpdate
	if err := readJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	caller := auth.GetCaller(r.Context())
	form, err := h.svc.Update(r.Context(), slug, caller, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *FormHandler) Share(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	caller := auth.GetCaller(r.Context())
	if err := h.svc.Share(r.Context(), slug, caller, req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
