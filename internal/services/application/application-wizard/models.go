// internal/services/application/application-wizard/models.go
package applicationwizard

import (
	"errors"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

var (
	ErrSessionNotFound  = errors.New("SESSION_NOT_FOUND")
	ErrSubmitInProgress = errors.New("SUBMIT_IN_PROGRESS")
)

// State is the wizard position plus the form being filled in.
type State struct {
	Step            models.Step            `json:"step"`
	Form            models.ApplicationForm `json:"form"`
	FieldErrors     map[string]string      `json:"fieldErrors,omitempty"`
	Error           string                 `json:"error,omitempty"`
	Loading         bool                   `json:"loading"`
	ApplicationID   string                 `json:"applicationId,omitempty"`
	ProjectedReturn int64                  `json:"projectedReturn"`
}

// Public returns a copy without receipt bytes.
func (s *State) Public() *State {
	cp := *s
	cp.Form.PaymentProof = s.Form.PaymentProof.WithoutData()
	return &cp
}

// FieldPatch carries the text and amount fields a client may change.
// Nil fields are left untouched.
type FieldPatch struct {
	FullName             *string `json:"fullName,omitempty"`
	Phone                *string `json:"phone,omitempty"`
	Email                *string `json:"email,omitempty"`
	InvestmentAmount     *int64  `json:"investmentAmount,omitempty"`
	CustomAmount         *string `json:"customAmount,omitempty"`
	Duration             *int    `json:"duration,omitempty"`
	AccountName          *string `json:"accountName,omitempty"`
	BankName             *string `json:"bankName,omitempty"`
	AccountNumber        *string `json:"accountNumber,omitempty"`
	TransactionReference *string `json:"transactionReference,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"sessionId"`
	State     *State `json:"state"`
}
