// internal/services/communication/send-admin-notification/handler.go
package sendadminnotification

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	sanitizeinput "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/sanitize-input"
)

type Handler struct {
	config *Config
	mailer Mailer
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, mailer Mailer, errorHandler *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		mailer: mailer,
		errors: errorHandler,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Send handles POST /api/send-admin-notification. Delivery failures and
// sends absorbed by the mock transport still answer 200 with a warning
// because the application is already stored.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError("Invalid request body"), "")
		return
	}

	if missing := MissingFields(body); len(missing) > 0 {
		h.errors.WriteError(w, r, apperrors.NewValidationError("Missing required fields: "+strings.Join(missing, ", "), nil), "")
		return
	}

	result, err := payloadSchema.Validate(body)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError("Invalid request body"), "")
		return
	}
	if !result.Valid {
		h.errors.WriteError(w, r, apperrors.NewValidationError(result.FirstMessage(), nil), "")
		return
	}

	receiptURL, _ := body["paymentScreenshotURL"].(string)
	n := toNotification(sanitizeinput.SanitizeMap(body))

	html, err := RenderAdminEmail(n, receiptURL, h.config.AppURL)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInternalError("Failed to render notification", err), "")
		return
	}

	rawName, _ := body["fullName"].(string)
	out, err := h.mailer.SendEmail(ctx, h.config.AdminEmail, Subject(n.InvestmentAmount, strings.TrimSpace(rawName)), html)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		h.errors.WriteError(w, r, apperrors.NewRequestTimeoutError(ctx.Err()), "")
		return
	}

	if err != nil {
		h.logger.Warn("admin notification email failed", map[string]interface{}{
			"applicationId": n.ApplicationID,
			"error":         err.Error(),
		})
		apperrors.WriteJSON(w, http.StatusOK, models.NotificationResponse{
			Success:       true,
			Message:       MsgSavedNoEmail,
			ApplicationID: n.ApplicationID,
			Warning:       WarnNotConfigured,
		})
		return
	}

	if out.Degraded {
		warning := out.Warning
		if warning == "" {
			warning = WarnNotConfigured
		}
		h.logger.Warn("admin notification not delivered", map[string]interface{}{
			"applicationId": n.ApplicationID,
			"transport":     out.Provider,
			"warning":       warning,
		})
		apperrors.WriteJSON(w, http.StatusOK, models.NotificationResponse{
			Success:       true,
			Message:       MsgNotDelivered,
			ApplicationID: n.ApplicationID,
			Warning:       warning,
		})
		return
	}

	h.logger.Info("admin notification sent", map[string]interface{}{
		"applicationId": n.ApplicationID,
		"messageId":     out.MessageID,
		"transport":     out.Provider,
	})
	apperrors.WriteJSON(w, http.StatusOK, models.NotificationResponse{
		Success:       true,
		Message:       MsgSent,
		ApplicationID: n.ApplicationID,
		MessageID:     out.MessageID,
	})
}

// MissingFields lists absent required fields in order. Empty strings and
// zero numbers count as absent.
func MissingFields(body map[string]interface{}) []string {
	var missing []string
	for _, field := range RequiredFields {
		if !present(body[field]) {
			missing = append(missing, field)
		}
	}
	return missing
}

func present(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case float64:
		return val != 0
	case bool:
		return val
	default:
		return true
	}
}

func toNotification(m map[string]interface{}) models.AdminNotification {
	return models.AdminNotification{
		FullName:             str(m["fullName"]),
		Email:                str(m["email"]),
		Phone:                str(m["phone"]),
		InvestmentAmount:     num(m["investmentAmount"]),
		Duration:             int(num(m["duration"])),
		ProjectedReturn:      num(m["projectedReturn"]),
		AccountName:          str(m["accountName"]),
		BankName:             str(m["bankName"]),
		AccountNumber:        str(m["accountNumber"]),
		PaymentScreenshotURL: str(m["paymentScreenshotURL"]),
		TransactionReference: str(m["transactionReference"]),
		ApplicationID:        str(m["applicationId"]),
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func num(v interface{}) int64 {
	f, _ := v.(float64)
	return int64(math.Round(f))
}
