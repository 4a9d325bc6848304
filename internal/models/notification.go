// internal/models/notification.go
package models

// AdminNotification is posted to the admin notification endpoint after an
// application is stored.
type AdminNotification struct {
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	InvestmentAmount     int64  `json:"investmentAmount"`
	Duration             int    `json:"duration"`
	ProjectedReturn      int64  `json:"projectedReturn"`
	AccountName          string `json:"accountName,omitempty"`
	BankName             string `json:"bankName"`
	AccountNumber        string `json:"accountNumber"`
	PaymentScreenshotURL string `json:"paymentScreenshotURL"`
	TransactionReference string `json:"transactionReference"`
	ApplicationID        string `json:"applicationId"`
}

// NotificationResponse is the body returned by the notification endpoints.
type NotificationResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId,omitempty"`
	MessageID     string `json:"messageId,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// Confirmation is the body of the applicant confirmation request.
type Confirmation struct {
	Email            string `json:"email"`
	FullName         string `json:"fullName"`
	Phone            string `json:"phone,omitempty"`
	InvestmentAmount int64  `json:"investmentAmount"`
	Duration         int    `json:"duration"`
	ProjectedReturn  int64  `json:"projectedReturn"`
	ApplicationID    string `json:"applicationId"`
}

// NewAdminNotification builds the payload for a stored application.
func NewAdminNotification(app *Application) AdminNotification {
	return AdminNotification{
		FullName:             app.FullName,
		Email:                app.Email,
		Phone:                app.Phone,
		InvestmentAmount:     app.InvestmentAmount,
		Duration:             app.Duration,
		ProjectedReturn:      app.ProjectedReturn,
		AccountName:          app.AccountName,
		BankName:             app.BankName,
		AccountNumber:        app.AccountNumber,
		PaymentScreenshotURL: app.PaymentScreenshotURL,
		TransactionReference: app.TransactionReference,
		ApplicationID:        app.ID,
	}
}
