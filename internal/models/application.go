// internal/models/application.go
package models

import "time"

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusUnderReview ApplicationStatus = "under_review"
)

// Application is a persisted investment application. Only Status and
// UpdatedAt change after creation.
type Application struct {
	ID                   string            `json:"id"`
	FullName             string            `json:"fullName"`
	Phone                string            `json:"phone"`
	Email                string            `json:"email"`
	InvestmentAmount     int64             `json:"investmentAmount"`
	Duration             int               `json:"duration"`
	ProjectedReturn      int64             `json:"projectedReturn"`
	AccountName          string            `json:"accountName"`
	BankName             string            `json:"bankName"`
	AccountNumber        string            `json:"accountNumber"`
	PaymentScreenshotURL string            `json:"paymentScreenshotURL"`
	TransactionReference string            `json:"transactionReference"`
	Status               ApplicationStatus `json:"status"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            *time.Time        `json:"updatedAt,omitempty"`
}

// StatusSummary is the public view returned by the status lookup.
type StatusSummary struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	FullName         string            `json:"fullName"`
	InvestmentAmount int64             `json:"investmentAmount"`
	Status           ApplicationStatus `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func (a *Application) Summary() StatusSummary {
	return StatusSummary{
		ID:               a.ID,
		Email:            a.Email,
		FullName:         a.FullName,
		InvestmentAmount: a.InvestmentAmount,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt,
	}
}

// ApplicationFilter selects applications; Email takes precedence over Status.
type ApplicationFilter struct {
	Email  string
	Status ApplicationStatus
}
