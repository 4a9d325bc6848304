// internal/services/application/sanitize-input/sanitizer_test.go
package sanitizeinput

import (
	"testing"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"script tag", "<script>", "&lt;script&gt;"},
		{"closing tag", "</b>", "&lt;&#x2F;b&gt;"},
		{"quotes", `say "hi" it's`, "say &quot;hi&quot; it&#x27;s"},
		{"trims", "  Ada Lovelace \n", "Ada Lovelace"},
		{"ampersand kept", "Smith & Sons", "Smith & Sons"},
		{"plain", "0123456789", "0123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"<script>alert('x')</script>",
		`<img src="a/b.png" onerror='x'>`,
		"  https://zteller.ng/apply  ",
		"&lt;already&gt; escaped &amp; fine",
		"O'Brien",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeForm(t *testing.T) {
	form := &models.ApplicationForm{
		FullName:             " <b>Ada</b> ",
		Phone:                "+2348012345678",
		Email:                "ada@zteller.ng",
		AccountName:          "Ada O'Neil",
		BankName:             "GTBank",
		AccountNumber:        "0123456789",
		TransactionReference: "",
	}

	got := SanitizeForm(form)
	assert.Equal(t, "&lt;b&gt;Ada&lt;&#x2F;b&gt;", got.FullName)
	assert.Equal(t, "Ada O&#x27;Neil", got.AccountName)
	assert.Equal(t, "ada@zteller.ng", got.Email)
	assert.Equal(t, "", got.TransactionReference)
}

func TestSanitizeMap(t *testing.T) {
	in := map[string]interface{}{
		"fullName":         "<i>Ada</i>",
		"investmentAmount": float64(100000),
		"nested":           map[string]interface{}{"note": "a/b"},
		"list":             []interface{}{"<x>", 1},
	}

	out := SanitizeMap(in)
	assert.Equal(t, "&lt;i&gt;Ada&lt;&#x2F;i&gt;", out["fullName"])
	assert.Equal(t, float64(100000), out["investmentAmount"])
	assert.Equal(t, "a&#x2F;b", out["nested"].(map[string]interface{})["note"])
	assert.Equal(t, []interface{}{"&lt;x&gt;", 1}, out["list"])
	assert.Equal(t, "<i>Ada</i>", in["fullName"])
}
