package handler

import (
	"net/http"

	"github.com/tim-martinez/node-form/internal/models"
)

type FormHandler struct {
	form *models.Form
}

func NewFormHandler(form *models.Form) *FormHandler {
	return &FormHandler{form: form}
}

// Get serves the active form definition so clients render the same questions.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.form)
}
