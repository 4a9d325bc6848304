// internal/services/application/sanitize-input/sanitizer.go
package sanitizeinput

import (
	"strings"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

// "&" is left alone so a second pass leaves escaped text unchanged.
var replacer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Sanitize escapes markup characters and trims surrounding whitespace.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(replacer.Replace(s))
}

// SanitizedFields are the free-text form fields after escaping.
type SanitizedFields struct {
	FullName             string
	Phone                string
	Email                string
	AccountName          string
	BankName             string
	AccountNumber        string
	TransactionReference string
}

func SanitizeForm(form *models.ApplicationForm) SanitizedFields {
	return SanitizedFields{
		FullName:             Sanitize(form.FullName),
		Phone:                Sanitize(form.Phone),
		Email:                Sanitize(form.Email),
		AccountName:          Sanitize(form.AccountName),
		BankName:             Sanitize(form.BankName),
		AccountNumber:        Sanitize(form.AccountNumber),
		TransactionReference: Sanitize(form.TransactionReference),
	}
}

// SanitizeMap returns a copy of m with every string value (including nested ones) sanitized.
func SanitizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return Sanitize(val)
	case map[string]interface{}:
		return SanitizeMap(val)
	case []interface{}:
		items := make([]interface{}, len(val))
		for i, item := range val {
			items[i] = sanitizeValue(item)
		}
		return items
	default:
		return v
	}
}
