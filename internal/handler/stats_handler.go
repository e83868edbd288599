package handler

import (
	"net/http"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/service"
)

type StatsHandler struct {
	form *models.Form
	svc  *service.SubmissionService
}

func NewStatsHandler(form *models.Form, svc *service.SubmissionService) *StatsHandler {
	return &StatsHandler{form: form, svc: svc}
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgReadError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formId":          h.form.ID,
		"formTitle":       h.form.Title,
		"sectionCount":    len(h.form.Sections),
		"questionCount":   h.form.QuestionCount(),
		"submissionCount": count,
	})
}
