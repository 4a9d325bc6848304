package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStep(t *testing.T) {
	tests := []struct {
		step  Step
		name  string
		valid bool
	}{
		{StepDetails, "details", true},
		{StepBank, "bank", true},
		{StepPayment, "payment", true},
		{StepReview, "review", true},
		{StepSuccess, "success", true},
		{Step(0), "unknown", false},
		{Step(6), "unknown", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.step.String())
		assert.Equal(t, tt.valid, tt.step.Valid(), tt.name)
	}
}

func TestPaymentProof_WithoutData(t *testing.T) {
	var nilProof *PaymentProof
	assert.Nil(t, nilProof.WithoutData())

	p := &PaymentProof{Filename: "receipt.png", ContentType: "image/png", Size: 4, Data: []byte{1, 2, 3, 4}}
	cp := p.WithoutData()
	assert.Nil(t, cp.Data)
	assert.Equal(t, int64(4), cp.Size)
	assert.Len(t, p.Data, 4)
}

func TestApplicationProjections(t *testing.T) {
	app := &Application{
		ID:                   "665f1c2e8b3a4d0012345678",
		FullName:             "Ada Obi",
		Email:                "ada@example.com",
		Phone:                "08012345678",
		InvestmentAmount:     100000,
		Duration:             3,
		ProjectedReturn:      115000,
		BankName:             "Access Bank",
		AccountNumber:        "0123456789",
		PaymentScreenshotURL: "https://receipts.example.com/payment-proofs/r.png",
		Status:               StatusPending,
		CreatedAt:            time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	s := app.Summary()
	assert.Equal(t, app.ID, s.ID)
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, app.CreatedAt, s.CreatedAt)

	n := NewAdminNotification(app)
	assert.Equal(t, app.ID, n.ApplicationID)
	assert.Equal(t, int64(115000), n.ProjectedReturn)
	assert.Equal(t, app.PaymentScreenshotURL, n.PaymentScreenshotURL)
	assert.Equal(t, "0123456789", n.AccountNumber)
}
