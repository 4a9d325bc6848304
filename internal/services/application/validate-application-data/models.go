// internal/services/application/validate-application-data/models.go
package validateapplicationdata

import "regexp"

// Result holds per-field messages for one step.
type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Message     string            `json:"message,omitempty"`
}

const (
	FieldFullName         = "fullName"
	FieldPhone            = "phone"
	FieldEmail            = "email"
	FieldInvestmentAmount = "investmentAmount"
	FieldAccountName      = "accountName"
	FieldBankName         = "bankName"
	FieldAccountNumber    = "accountNumber"
	FieldPaymentProof     = "paymentScreenshot"
)

const (
	MsgCorrectErrors = "Please correct the errors below"
	MsgFileTooLarge  = "Image size must be less than 1MB. Please compress or choose a smaller image."
	MsgFileType      = "Please upload a valid image file (JPG, PNG, GIF, or WEBP)"
	MsgFileMissing   = "Please upload payment proof"
)

var (
	phoneRegex         = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9]{10,12}$`)
	whitespace         = regexp.MustCompile(`\s+`)
)
