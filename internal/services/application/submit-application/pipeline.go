// internal/services/application/submit-application/pipeline.go
package submitapplication

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/metrics"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/observability"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	applicationstore "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/application-store"
	calculateprojectedreturn "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/calculate-projected-return"
	sanitizeinput "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/sanitize-input"
	validateapplicationdata "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/validate-application-data"
)

const TaskType = "submit-application"

type Pipeline struct {
	config     *Config
	validator  *validateapplicationdata.Validator
	calculator *calculateprojectedreturn.Calculator
	encoder    Encoder
	store      applicationstore.Store
	notifier   Notifier
	obs        *observability.Observability
	logger     logger.Logger
	now        func() time.Time
}

func NewPipeline(
	config *Config,
	validator *validateapplicationdata.Validator,
	encoder Encoder,
	store applicationstore.Store,
	notifier Notifier,
	obs *observability.Observability,
	log logger.Logger,
) *Pipeline {
	if config == nil {
		config = LoadConfig()
	}
	return &Pipeline{
		config:     config,
		validator:  validator,
		calculator: calculateprojectedreturn.NewCalculator(config.MonthlyRate),
		encoder:    encoder,
		store:      store,
		notifier:   notifier,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:        time.Now,
	}
}

// Submit validates, uploads, sanitizes and stores form, then notifies the
// admins. Nothing is stored when an earlier step fails. Notification
// failures are logged only.
func (p *Pipeline) Submit(ctx context.Context, step models.Step, form *models.ApplicationForm) (*Result, error) {
	start := p.now()
	log := logger.FromContext(ctx, p.logger)

	result, outcome, err := p.submit(ctx, log, step, form)

	metrics.ApplicationSubmissions.WithLabelValues(outcome).Inc()
	p.obs.RecordSubmission(ctx, outcome)
	p.obs.RecordSubmissionDuration(ctx, p.now().Sub(start), outcome)

	return result, err
}

func (p *Pipeline) submit(ctx context.Context, log logger.Logger, step models.Step, form *models.ApplicationForm) (*Result, string, error) {
	// 1. current step
	if res := p.validator.ValidateStep(step, form); !res.Valid {
		log.Info("step validation failed", map[string]interface{}{
			"step":        step.String(),
			"fieldErrors": res.FieldErrors,
		})
		return nil, metrics.OutcomeValidation, apperrors.NewValidationError(res.Message, res.FieldErrors)
	}

	// 2. whole form
	if errs := p.validator.ValidateForm(form); len(errs) > 0 {
		log.Info("form validation failed", map[string]interface{}{
			"errors": errs,
		})
		return nil, metrics.OutcomeValidation, apperrors.NewValidationError(strings.Join(errs, ". "), nil)
	}

	// 3. receipt
	receiptURL := ""
	if form.PaymentProof != nil {
		url, err := p.encoder.Encode(ctx, form.PaymentProof)
		if err != nil {
			log.Warn("payment proof rejected", map[string]interface{}{
				"error": err,
			})
			return nil, metrics.OutcomeFileRejected, err
		}
		receiptURL = url
	}

	// 4. sanitize
	fields := sanitizeinput.SanitizeForm(form)
	quote, _ := p.calculator.Quote(form.InvestmentAmount, form.CustomAmount, form.Duration)

	app := &models.Application{
		FullName:             fields.FullName,
		Phone:                fields.Phone,
		Email:                fields.Email,
		InvestmentAmount:     quote.Amount,
		Duration:             form.Duration,
		ProjectedReturn:      quote.ProjectedReturn,
		AccountName:          fields.AccountName,
		BankName:             fields.BankName,
		AccountNumber:        fields.AccountNumber,
		PaymentScreenshotURL: receiptURL,
		TransactionReference: fields.TransactionReference,
		Status:               models.StatusPending,
		CreatedAt:            p.now().UTC(),
	}

	// 5. persist; the caller can no longer cancel from here on
	persistCtx := context.WithoutCancel(ctx)
	id, err := p.store.Create(persistCtx, app)
	if err != nil {
		log.Error("failed to persist application", map[string]interface{}{
			"context": "submitApplication.persist",
			"error":   err,
		})
		return nil, metrics.OutcomePersistenceFail, apperrors.NewDatabaseInsertFailedError(err)
	}
	app.ID = id

	log.Info("application submitted", map[string]interface{}{
		"applicationId":    id,
		"investmentAmount": app.InvestmentAmount,
		"duration":         app.Duration,
		"hasReceipt":       receiptURL != "",
	})

	// 6. best-effort admin notification
	p.notify(persistCtx, log, app)

	return &Result{
		ApplicationID:        id,
		ProjectedReturn:      app.ProjectedReturn,
		PaymentScreenshotURL: receiptURL,
	}, metrics.OutcomeSuccess, nil
}

func (p *Pipeline) notify(ctx context.Context, log logger.Logger, app *models.Application) {
	if p.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, p.config.NotifyTimeout)
	defer cancel()

	if err := p.notifier.NotifyAdmin(ctx, models.NewAdminNotification(app)); err != nil {
		log.Warn("admin notification failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err,
		})
	}
}
