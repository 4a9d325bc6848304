// internal/services/application/submit-application/handler.go
package submitapplication

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

// Handler accepts a complete application as JSON. Receipts are only
// accepted through the wizard upload.
type Handler struct {
	pipeline Submitter
	errors   *apperrors.ErrorHandler
}

func NewHandler(pipeline Submitter, errorHandler *apperrors.ErrorHandler) *Handler {
	return &Handler{pipeline: pipeline, errors: errorHandler}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form models.ApplicationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError("Invalid request body"), "")
		return
	}
	form.PaymentProof = nil

	result, err := h.pipeline.Submit(r.Context(), models.StepReview, &form)
	if err != nil {
		h.errors.WriteError(w, r, err, "")
		return
	}

	apperrors.WriteJSON(w, http.StatusCreated, Response{
		Success:              true,
		ApplicationID:        result.ApplicationID,
		ProjectedReturn:      result.ProjectedReturn,
		PaymentScreenshotURL: result.PaymentScreenshotURL,
	})
}
