package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formhive/formhive/internal/auth"
	"github.com/formhive/formhive/internal/service"
)

type SubmissionHandler struct {
	subSvc  *service.SubmissionService
	formSvc *service.FormService
}

func NewSubmissionHandler(subSvc *service.SubmissionService, formSvc *service.FormService) *SubmissionHandler {
	return &SubmissionHandler{subSvc: subSvc, formSvc: formSvc}
}

// PublicView serves the anonymous form view. Closed and unknown slugs
// both come back 404 so the endpoint never confirms a slug existed.
func (h *SubmissionHandler) PublicView(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	form, err := h.formSvc.PublicView(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"form_hash":           form.Slug,
		"form_name":           form.Name,
		"form_data":           form.FormData,
		"background_settings": form.BackgroundSettings,
		"form_close_time":     form.CloseTime,
	})
}

// Submit accepts an anonymous response. A closed form is a lifecycle
// rejection (410), distinct from a malformed payload (400), so clients
// can show a "form closed" message.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var req struct {
		Email    string          `json:"email"`
		Response json.RawMessage `json:"response"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Response) == 0 {
		writeError(w, http.StatusBadRequest, "response is required")
		return
	}
	sub, err := h.subSvc.Submit(r.Context(), slug, req.Email, req.Response)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// List serves a form's responses to its editors.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	caller := auth.GetCaller(r.Context())
	subs, err := h.subSvc.List(r.Context(), slug, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"responses": subs,
		"total":     len(subs),
	})
}
