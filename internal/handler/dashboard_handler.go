package handler

import (
	"net/http"

	"github.com/formhive/formhive/internal/auth"
	"github.com/formhive/formhive/internal/models"
	"github.com/formhive/formhive/internal/service"
)

type DashboardHandler struct {
	formSvc *service.FormService
	subSvc  *service.SubmissionService
}

func NewDashboardHandler(formSvc *service.FormService, subSvc *service.SubmissionService) *DashboardHandler {
	return &DashboardHandler{formSvc: formSvc, subSvc: subSvc}
}

// Dashboard lists the caller's own forms and the ones shared with them,
// each with a response count.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := auth.GetCaller(ctx)

	owned, err := h.formSvc.Owned(ctx, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	shared, err := h.formSvc.SharedWith(ctx, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"owned":  h.formStats(r, owned),
		"shared": h.formStats(r, shared),
	})
}

func (h *DashboardHandler) formStats(r *http.Request, forms []models.Form) []map[string]any {
	stats := make([]map[string]any, 0, len(forms))
	for _, f := range forms {
		count, _ := h.subSvc.CountByForm(r.Context(), f.Slug)
		stats = append(stats, map[string]any{
			"form_hash":       f.Slug,
			"form_name":       f.Name,
			"creator_email":   f.CreatorEmail,
			"form_close_time": f.CloseTime,
			"responseCount":   count,
			"sectionCount":    len(f.TypedSections()),
			"created_at":      f.CreatedAt,
		})
	}
	return stats
}
