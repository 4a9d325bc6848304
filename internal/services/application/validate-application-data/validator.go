// internal/services/application/validate-application-data/validator.go
package validateapplicationdata

import (
	"strings"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/validation"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	calculateprojectedreturn "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/calculate-projected-return"
)

type Validator struct {
	config *Config
}

func NewValidator(config *Config) *Validator {
	if config == nil {
		config = LoadConfig()
	}
	return &Validator{config: config}
}

// ValidateStep checks the fields gated by step. Review and Success have no rules.
func (v *Validator) ValidateStep(step models.Step, form *models.ApplicationForm) Result {
	fieldErrors := make(map[string]string)

	switch step {
	case models.StepDetails:
		v.validateDetails(form, fieldErrors)
	case models.StepBank:
		v.validateBank(form, fieldErrors)
	case models.StepPayment:
		if msg, ok := v.ValidatePaymentProof(form.PaymentProof); !ok {
			fieldErrors[FieldPaymentProof] = msg
		}
	}

	if len(fieldErrors) > 0 {
		return Result{Valid: false, FieldErrors: fieldErrors, Message: MsgCorrectErrors}
	}
	return Result{Valid: true}
}

func (v *Validator) validateDetails(form *models.ApplicationForm, fieldErrors map[string]string) {
	if strings.TrimSpace(form.FullName) == "" {
		fieldErrors[FieldFullName] = "Full name is required"
	}

	if strings.TrimSpace(form.Phone) == "" {
		fieldErrors[FieldPhone] = "Phone number is required"
	} else if !ValidPhone(form.Phone) {
		fieldErrors[FieldPhone] = "Please enter a valid phone number"
	}

	if strings.TrimSpace(form.Email) == "" {
		fieldErrors[FieldEmail] = "Email is required"
	} else if !validation.ValidateEmail(strings.TrimSpace(form.Email)) {
		fieldErrors[FieldEmail] = "Please enter a valid email address"
	}

	if form.InvestmentAmount == 0 && strings.TrimSpace(form.CustomAmount) == "" {
		fieldErrors[FieldInvestmentAmount] = "Please select or enter an investment amount"
	}
}

func (v *Validator) validateBank(form *models.ApplicationForm, fieldErrors map[string]string) {
	if strings.TrimSpace(form.AccountName) == "" {
		fieldErrors[FieldAccountName] = "Account name is required"
	}
	if strings.TrimSpace(form.BankName) == "" {
		fieldErrors[FieldBankName] = "Please select a bank"
	}
	if strings.TrimSpace(form.AccountNumber) == "" {
		fieldErrors[FieldAccountNumber] = "Account number is required"
	} else if !ValidAccountNumber(form.AccountNumber) {
		fieldErrors[FieldAccountNumber] = "Account number must be 10 digits"
	}
}

// ValidatePaymentProof checks presence, size and type of an uploaded receipt.
func (v *Validator) ValidatePaymentProof(proof *models.PaymentProof) (string, bool) {
	if proof == nil {
		return MsgFileMissing, false
	}
	if proof.Size > v.config.MaxFileSize {
		return MsgFileTooLarge, false
	}
	if !v.allowedType(proof.ContentType) {
		return MsgFileType, false
	}
	return "", true
}

func (v *Validator) allowedType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, allowed := range v.config.AllowedTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

// ValidateForm is the whole-form pass run before submission. Messages are
// returned in a fixed order; callers join them with ". ".
func (v *Validator) ValidateForm(form *models.ApplicationForm) []string {
	var errs []string

	if strings.TrimSpace(form.FullName) == "" {
		errs = append(errs, "Full name is required")
	}
	if strings.TrimSpace(form.Email) == "" {
		errs = append(errs, "Email is required")
	}
	if strings.TrimSpace(form.Phone) == "" {
		errs = append(errs, "Phone number is required")
	}
	if strings.TrimSpace(form.AccountName) == "" {
		errs = append(errs, "Account name is required")
	}
	if strings.TrimSpace(form.BankName) == "" {
		errs = append(errs, "Bank name is required")
	}
	if strings.TrimSpace(form.AccountNumber) == "" {
		errs = append(errs, "Account number is required")
	}

	if email := strings.TrimSpace(form.Email); email != "" && !validation.ValidateEmail(email) {
		errs = append(errs, "Invalid email format")
	}
	if strings.TrimSpace(form.Phone) != "" && !ValidPhone(form.Phone) {
		errs = append(errs, "Invalid phone number format")
	}
	if strings.TrimSpace(form.AccountNumber) != "" && !ValidAccountNumber(form.AccountNumber) {
		errs = append(errs, "Invalid account number format")
	}

	if _, ok := calculateprojectedreturn.ResolveAmount(form.InvestmentAmount, form.CustomAmount); !ok {
		errs = append(errs, "Please enter a valid investment amount")
	}
	if !calculateprojectedreturn.IsValidDuration(form.Duration) {
		errs = append(errs, "Please select a valid investment duration")
	}

	return errs
}

func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(whitespace.ReplaceAllString(phone, ""))
}

func ValidAccountNumber(accountNumber string) bool {
	return accountNumberRegex.MatchString(whitespace.ReplaceAllString(accountNumber, ""))
}
