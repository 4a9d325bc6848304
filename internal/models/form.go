package models

import (
	"bytes"
	"io"
)

// ApplicationForm is the unsanitized wizard input.
type ApplicationForm struct {
	FullName             string        `json:"fullName"`
	Phone                string        `json:"phone"`
	Email                string        `json:"email"`
	InvestmentAmount     int64         `json:"investmentAmount"`
	CustomAmount         string        `json:"customAmount"`
	Duration             int           `json:"duration"`
	AccountName          string        `json:"accountName"`
	BankName             string        `json:"bankName"`
	AccountNumber        string        `json:"accountNumber"`
	TransactionReference string        `json:"transactionReference"`
	PaymentProof         *PaymentProof `json:"paymentProof,omitempty"`
}

// PaymentProof is an uploaded receipt. Data is empty when the upload was
// larger than the accepted size; Size still carries the declared length.
type PaymentProof struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"data,omitempty"`
}

func (p *PaymentProof) Reader() io.Reader {
	return bytes.NewReader(p.Data)
}

// WithoutData returns a copy safe to show to clients.
func (p *PaymentProof) WithoutData() *PaymentProof {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Data = nil
	return &cp
}

// Step is a wizard position.
type Step int

const (
	StepDetails Step = iota + 1
	StepBank
	StepPayment
	StepReview
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepBank:
		return "bank"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

func (s Step) Valid() bool {
	return s >= StepDetails && s <= StepSuccess
}
