package handler

import (
	"net/http"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/service"
)

const (
	msgSubmitted   = "Form submitted successfully"
	msgSaveError   = "Error saving submission"
	msgReadError   = "Error reading submissions"
	msgInvalidBody = "invalid request body"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

func (h *SubmissionHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Submit appends the posted answer set. The body must be a JSON object.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var answers models.AnswerSet
	if err := readJSON(w, r, &answers); err != nil || answers == nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	sub, err := h.svc.Append(r.Context(), answers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgSaveError)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: msgSubmitted, ID: sub.ID()})
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgReadError)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
