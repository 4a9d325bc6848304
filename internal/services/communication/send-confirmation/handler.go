// internal/services/communication/send-confirmation/handler.go
package sendconfirmation

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

const (
	MsgQueued        = "Confirmation email queued for sending"
	MsgMissingFields = "Missing required fields"
)

type Handler struct {
	dispatcher *Dispatcher
	errors     *apperrors.ErrorHandler
}

func NewHandler(dispatcher *Dispatcher, errorHandler *apperrors.ErrorHandler) *Handler {
	return &Handler{dispatcher: dispatcher, errors: errorHandler}
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var c models.Confirmation
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError("Invalid request body"), "")
		return
	}

	if strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.FullName) == "" {
		h.errors.WriteError(w, r, apperrors.NewValidationError(MsgMissingFields, nil), "")
		return
	}

	if err := h.dispatcher.Dispatch(c); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInternalError("Failed to queue confirmation", err), "")
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, models.NotificationResponse{
		Success:       true,
		Message:       MsgQueued,
		ApplicationID: c.ApplicationID,
	})
}
