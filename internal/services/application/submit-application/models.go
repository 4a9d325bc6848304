// internal/services/application/submit-application/models.go
package submitapplication

import (
	"context"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

// Result describes a stored application.
type Result struct {
	ApplicationID        string `json:"applicationId"`
	ProjectedReturn      int64  `json:"projectedReturn"`
	PaymentScreenshotURL string `json:"paymentScreenshotURL"`
}

type Response struct {
	Success              bool   `json:"success"`
	ApplicationID        string `json:"applicationId"`
	ProjectedReturn      int64  `json:"projectedReturn"`
	PaymentScreenshotURL string `json:"paymentScreenshotURL"`
}

// Encoder turns an attached receipt into a retrieval URL.
type Encoder interface {
	Encode(ctx context.Context, proof *models.PaymentProof) (string, error)
}

// Notifier tells the admins about a new application.
type Notifier interface {
	NotifyAdmin(ctx context.Context, payload models.AdminNotification) error
}

// Submitter is the pipeline entry point used by the wizard.
type Submitter interface {
	Submit(ctx context.Context, step models.Step, form *models.ApplicationForm) (*Result, error)
}
