// internal/services/communication/send-admin-notification/template.go
package sendadminnotification

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	calculateprojectedreturn "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/calculate-projected-return"
)

// Text fields arrive already escaped by the sanitizer, so they are passed
// to the template as template.HTML to avoid escaping them twice.
type emailData struct {
	FullName             template.HTML
	Email                template.HTML
	Phone                template.HTML
	Amount               string
	Duration             int
	ProjectedReturn      string
	AccountName          template.HTML
	BankName             template.HTML
	MaskedAccount        template.HTML
	TransactionReference template.HTML
	ReceiptURL           string
	ReviewURL            string
	ApplicationID        template.HTML
}

var adminEmail = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>New Investment Application</h2>

  <h3>Investor Information</h3>
  <p><strong>Name:</strong> {{.FullName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>

  <h3>Investment Details</h3>
  <p><strong>Amount:</strong> {{.Amount}}</p>
  <p><strong>Duration:</strong> {{.Duration}} months</p>
  <p><strong>Projected Return:</strong> {{.ProjectedReturn}}</p>

  <h3>Bank Details</h3>
  <p><strong>Account Name:</strong> {{.AccountName}}</p>
  <p><strong>Bank:</strong> {{.BankName}}</p>
  <p><strong>Account Number:</strong> {{.MaskedAccount}}</p>
  <p><strong>Transaction Reference:</strong> {{.TransactionReference}}</p>

  <h3>Payment Receipt</h3>
  {{if .ReceiptURL}}<p><a href="{{.ReceiptURL}}"><img src="{{.ReceiptURL}}" alt="Payment receipt" style="max-width: 400px;"></a></p>
  {{else}}<p>No payment receipt uploaded</p>
  {{end}}
  <p><a href="{{.ReviewURL}}" style="background: #2563eb; color: #ffffff; padding: 10px 16px; text-decoration: none;">Review Application</a></p>

  <hr>
  <p style="font-size: 12px; color: #6b7280;">Application ID: {{.ApplicationID}}</p>
  <p style="font-size: 12px; color: #6b7280;">This is an automated notification from Zteller Investor Portal</p>
</body>
</html>`))

// MaskAccountNumber keeps the last four digits.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) < 4 {
		return "****"
	}
	return "****" + accountNumber[len(accountNumber)-4:]
}

// Subject is the admin email subject line.
func Subject(amount int64, fullName string) string {
	name := strings.NewReplacer("\r", " ", "\n", " ").Replace(fullName)
	return "New Investment Application - " + calculateprojectedreturn.FormatNaira(amount) + " from " + name
}

// RenderAdminEmail renders the admin email. receiptURL is the raw upload URL.
func RenderAdminEmail(n models.AdminNotification, receiptURL, appURL string) (string, error) {
	data := emailData{
		FullName:             template.HTML(n.FullName),
		Email:                template.HTML(n.Email),
		Phone:                template.HTML(n.Phone),
		Amount:               calculateprojectedreturn.FormatNaira(n.InvestmentAmount),
		Duration:             n.Duration,
		ProjectedReturn:      calculateprojectedreturn.FormatNaira(n.ProjectedReturn),
		AccountName:          template.HTML(orNotProvided(n.AccountName)),
		BankName:             template.HTML(orNotProvided(n.BankName)),
		MaskedAccount:        template.HTML(MaskAccountNumber(n.AccountNumber)),
		TransactionReference: template.HTML(orNotProvided(n.TransactionReference)),
		ReceiptURL:           receiptLink(receiptURL),
		ReviewURL:            strings.TrimRight(appURL, "/") + "/admin/applications/" + url.PathEscape(n.ApplicationID),
		ApplicationID:        template.HTML(n.ApplicationID),
	}

	var buf bytes.Buffer
	if err := adminEmail.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not provided"
	}
	return s
}

// receiptLink keeps only absolute http(s) URLs.
func receiptLink(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
