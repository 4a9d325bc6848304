// internal/services/communication/send-admin-notification/models.go
package sendadminnotification

import (
	"context"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/validation"
	emailsend "github.com/The-Young-Programer/Investor-Zteller/internal/services/communication/email-send"
)

const TaskType = "send-admin-notification"

const (
	MsgSent           = "Admin notification sent successfully"
	MsgSavedNoEmail   = "Application saved (email notification failed)"
	MsgNotDelivered   = "Application saved (email notification not delivered)"
	WarnNotConfigured = "Email service is not configured"
)

// RequiredFields are checked for presence in this order.
var RequiredFields = []string{"fullName", "email", "investmentAmount", "duration", "projectedReturn", "applicationId"}

// Mailer sends one HTML email.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) (*emailsend.Output, error)
}

var payloadSchema = validation.MustSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"email": {"type": "string", "pattern": "^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\\.[a-zA-Z]{2,}$"},
		"fullName": {"type": "string"},
		"applicationId": {"type": "string"},
		"investmentAmount": {"type": "number", "exclusiveMinimum": 0},
		"duration": {"type": "number", "exclusiveMinimum": 0},
		"projectedReturn": {"type": "number", "exclusiveMinimum": 0}
	}
}`, map[string]string{
	"email":            "Invalid email format",
	"fullName":         "Full name must be text",
	"applicationId":    "Application ID must be text",
	"investmentAmount": "Investment amount must be a positive number",
	"duration":         "Duration must be a positive number",
	"projectedReturn":  "Projected return must be a positive number",
})
