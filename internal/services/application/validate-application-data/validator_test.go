// internal/services/application/validate-application-data/validator_test.go
package validateapplicationdata

import (
	"strings"
	"testing"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"

	"github.com/stretchr/testify/assert"
)

func validForm() *models.ApplicationForm {
	return &models.ApplicationForm{
		FullName:         "Ada Obi",
		Phone:            "+234 801 234 5678",
		Email:            "ada@zteller.ng",
		InvestmentAmount: 100000,
		Duration:         6,
		AccountName:      "Ada Obi",
		BankName:         "GTBank",
		AccountNumber:    "0123456789",
	}
}

func TestValidateStep_Details(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name      string
		mutate    func(f *models.ApplicationForm)
		wantField string
		wantMsg   string
	}{
		{"valid", func(f *models.ApplicationForm) {}, "", ""},
		{"missing name", func(f *models.ApplicationForm) { f.FullName = "   " }, FieldFullName, "Full name is required"},
		{"missing phone", func(f *models.ApplicationForm) { f.Phone = "" }, FieldPhone, "Phone number is required"},
		{"short phone", func(f *models.ApplicationForm) { f.Phone = "12345" }, FieldPhone, "Please enter a valid phone number"},
		{"missing email", func(f *models.ApplicationForm) { f.Email = "" }, FieldEmail, "Email is required"},
		{"bad email", func(f *models.ApplicationForm) { f.Email = "ada@zteller" }, FieldEmail, "Please enter a valid email address"},
		{"no amount", func(f *models.ApplicationForm) { f.InvestmentAmount = 0 }, FieldInvestmentAmount, "Please select or enter an investment amount"},
		{"custom amount", func(f *models.ApplicationForm) { f.InvestmentAmount = 0; f.CustomAmount = "75,000" }, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)

			result := v.ValidateStep(models.StepDetails, form)
			if tt.wantField == "" {
				assert.True(t, result.Valid, "unexpected errors: %v", result.FieldErrors)
				assert.Empty(t, result.Message)
				return
			}
			assert.False(t, result.Valid)
			assert.Equal(t, MsgCorrectErrors, result.Message)
			assert.Equal(t, tt.wantMsg, result.FieldErrors[tt.wantField])
		})
	}
}

func TestValidPhone(t *testing.T) {
	accepted := []string{"08012345678", "+2348012345678", "0801 234 5678", "123456789012345"}
	for _, p := range accepted {
		assert.True(t, ValidPhone(p), p)
	}

	rejected := []string{"123456789", "1234567890123456", "+234-801-234-5678", "080123abcde", "++2348012345678"}
	for _, p := range rejected {
		assert.False(t, ValidPhone(p), p)
	}
}

func TestValidateStep_Bank(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name      string
		account   string
		bank      string
		wantValid bool
		wantMsg   string
	}{
		{"ten digits", "0123456789", "GTBank", true, ""},
		{"twelve digits", "012345678901", "GTBank", true, ""},
		{"spaces stripped", "0123 456 789", "GTBank", true, ""},
		{"too short", "12345", "GTBank", false, "Account number must be 10 digits"},
		{"thirteen digits", "0123456789012", "GTBank", false, "Account number must be 10 digits"},
		{"empty", "", "GTBank", false, "Account number is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.AccountNumber = tt.account
			form.BankName = tt.bank

			result := v.ValidateStep(models.StepBank, form)
			assert.Equal(t, tt.wantValid, result.Valid)
			if !tt.wantValid {
				assert.Equal(t, tt.wantMsg, result.FieldErrors[FieldAccountNumber])
			}
		})
	}

	form := validForm()
	form.BankName = ""
	form.AccountName = ""
	result := v.ValidateStep(models.StepBank, form)
	assert.Equal(t, "Please select a bank", result.FieldErrors[FieldBankName])
	assert.Equal(t, "Account name is required", result.FieldErrors[FieldAccountName])
}

func TestValidateStep_Payment(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name    string
		proof   *models.PaymentProof
		wantMsg string
	}{
		{"missing", nil, MsgFileMissing},
		{"exactly 1MiB", &models.PaymentProof{Size: 1048576, ContentType: "image/png"}, ""},
		{"1MiB plus one", &models.PaymentProof{Size: 1048577, ContentType: "image/png"}, MsgFileTooLarge},
		{"pdf", &models.PaymentProof{Size: 100, ContentType: "application/pdf"}, MsgFileType},
		{"jpg alias", &models.PaymentProof{Size: 100, ContentType: "image/jpg"}, ""},
		{"webp with params", &models.PaymentProof{Size: 100, ContentType: "IMAGE/WEBP; charset=binary"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.PaymentProof = tt.proof

			result := v.ValidateStep(models.StepPayment, form)
			if tt.wantMsg == "" {
				assert.True(t, result.Valid)
				return
			}
			assert.False(t, result.Valid)
			assert.Equal(t, tt.wantMsg, result.FieldErrors[FieldPaymentProof])
		})
	}
}

func TestValidateStep_NoRules(t *testing.T) {
	v := NewValidator(nil)
	empty := &models.ApplicationForm{}

	assert.True(t, v.ValidateStep(models.StepReview, empty).Valid)
	assert.True(t, v.ValidateStep(models.StepSuccess, empty).Valid)
}

func TestValidateForm(t *testing.T) {
	v := NewValidator(nil)

	assert.Empty(t, v.ValidateForm(validForm()))

	form := validForm()
	form.Email = "not-an-email"
	form.InvestmentAmount = 0
	form.CustomAmount = "abc"
	form.Duration = 9
	errs := v.ValidateForm(form)
	assert.Equal(t, []string{
		"Invalid email format",
		"Please enter a valid investment amount",
		"Please select a valid investment duration",
	}, errs)

	errs = v.ValidateForm(&models.ApplicationForm{Duration: 3, InvestmentAmount: 25000})
	assert.Equal(t, "Full name is required. Email is required. Phone number is required. "+
		"Account name is required. Bank name is required. Account number is required",
		strings.Join(errs, ". "))
}
