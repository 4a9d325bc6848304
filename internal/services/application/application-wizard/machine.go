// internal/services/application/application-wizard/machine.go
package applicationwizard

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/metrics"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	calculateprojectedreturn "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/calculate-projected-return"
	submitapplication "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/submit-application"
	validateapplicationdata "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/validate-application-data"
)

const TaskType = "application-wizard"

// Machine drives the Details -> Bank -> Payment -> Review -> Success flow.
// It holds no per-session data; every call works on the State it is given.
type Machine struct {
	config     *Config
	validator  *validateapplicationdata.Validator
	calculator *calculateprojectedreturn.Calculator
	logger     logger.Logger
}

func NewMachine(config *Config, validator *validateapplicationdata.Validator, log logger.Logger) *Machine {
	if config == nil {
		config = LoadConfig()
	}
	return &Machine{
		config:     config,
		validator:  validator,
		calculator: calculateprojectedreturn.NewCalculator(config.MonthlyRate),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (m *Machine) NewState() *State {
	return &State{
		Step: models.StepDetails,
		Form: models.ApplicationForm{Duration: m.config.DefaultMonths},
	}
}

// Next advances when the current step validates. On failure the field
// errors are recorded on s and returned as a validation error.
func (m *Machine) Next(s *State) error {
	if s.Step >= models.StepReview || !s.Step.Valid() {
		return apperrors.NewInvalidStateTransitionError(fmt.Sprintf("next from %s", s.Step))
	}

	s.Error = ""
	s.FieldErrors = nil

	res := m.validator.ValidateStep(s.Step, &s.Form)
	if !res.Valid {
		s.FieldErrors = res.FieldErrors
		s.Error = res.Message
		return apperrors.NewValidationError(res.Message, res.FieldErrors)
	}

	m.move(s, s.Step+1)
	return nil
}

// Back is allowed from Bank, Payment and Review.
func (m *Machine) Back(s *State) error {
	if s.Step < models.StepBank || s.Step > models.StepReview {
		return apperrors.NewInvalidStateTransitionError(fmt.Sprintf("back from %s", s.Step))
	}
	s.Error = ""
	m.move(s, s.Step-1)
	return nil
}

// Submit runs submitter from Review. Success moves to the terminal step;
// failure keeps Review with the user-facing message set.
func (m *Machine) Submit(ctx context.Context, s *State, submitter submitapplication.Submitter) error {
	if s.Step != models.StepReview {
		return apperrors.NewInvalidStateTransitionError(fmt.Sprintf("submit from %s", s.Step))
	}

	s.Loading = true
	s.Error = ""
	s.FieldErrors = nil

	result, err := submitter.Submit(ctx, s.Step, &s.Form)
	s.Loading = false
	if err != nil {
		s.Error = apperrors.UserMessage(err, m.config.Development)
		s.FieldErrors = apperrors.FieldErrors(err)
		if apperrors.HasCode(err, apperrors.ErrCodeFileConstraintViolation) ||
			apperrors.HasCode(err, apperrors.ErrCodeFileProcessingTimeout) {
			if s.FieldErrors == nil {
				s.FieldErrors = make(map[string]string)
			}
			s.FieldErrors[validateapplicationdata.FieldPaymentProof] = s.Error
		}
		return err
	}

	s.ApplicationID = result.ApplicationID
	s.ProjectedReturn = result.ProjectedReturn
	s.Form.PaymentProof = s.Form.PaymentProof.WithoutData()
	m.move(s, models.StepSuccess)
	return nil
}

// UpdateFields merges patch into the form and refreshes the projection.
func (m *Machine) UpdateFields(s *State, patch FieldPatch) error {
	if s.Step == models.StepSuccess {
		return apperrors.NewInvalidStateTransitionError("edit after submission")
	}

	f := &s.Form
	setString(&f.FullName, patch.FullName)
	setString(&f.Phone, patch.Phone)
	setString(&f.Email, patch.Email)
	setString(&f.CustomAmount, patch.CustomAmount)
	setString(&f.AccountName, patch.AccountName)
	setString(&f.BankName, patch.BankName)
	setString(&f.AccountNumber, patch.AccountNumber)
	setString(&f.TransactionReference, patch.TransactionReference)
	if patch.InvestmentAmount != nil {
		f.InvestmentAmount = *patch.InvestmentAmount
	}
	if patch.Duration != nil {
		f.Duration = *patch.Duration
	}

	m.refreshProjection(s)
	return nil
}

// SetAmount selects a tier amount (custom is cleared) or, with tier 0, a custom amount.
func (m *Machine) SetAmount(s *State, tier int64, custom string) error {
	if s.Step == models.StepSuccess {
		return apperrors.NewInvalidStateTransitionError("edit after submission")
	}
	s.Form.InvestmentAmount = tier
	if tier != 0 {
		custom = ""
	}
	s.Form.CustomAmount = custom
	m.refreshProjection(s)
	return nil
}

func (m *Machine) SetDuration(s *State, months int) error {
	if s.Step == models.StepSuccess {
		return apperrors.NewInvalidStateTransitionError("edit after submission")
	}
	s.Form.Duration = months
	m.refreshProjection(s)
	return nil
}

// AttachPaymentProof stores the receipt unless it is over the size limit,
// in which case a field error is recorded and any earlier receipt dropped
// so the rejected choice is never submitted with a stale file.
func (m *Machine) AttachPaymentProof(s *State, proof *models.PaymentProof) error {
	if s.Step == models.StepSuccess {
		return apperrors.NewInvalidStateTransitionError("edit after submission")
	}
	if s.FieldErrors == nil {
		s.FieldErrors = make(map[string]string)
	}

	if proof.Size > m.config.MaxFileSize {
		s.Form.PaymentProof = nil
		s.FieldErrors[validateapplicationdata.FieldPaymentProof] = validateapplicationdata.MsgFileTooLarge
		return apperrors.NewValidationError(validateapplicationdata.MsgFileTooLarge, map[string]string{
			validateapplicationdata.FieldPaymentProof: validateapplicationdata.MsgFileTooLarge,
		})
	}

	s.Error = ""
	delete(s.FieldErrors, validateapplicationdata.FieldPaymentProof)
	s.Form.PaymentProof = proof

	m.logger.Debug("payment proof attached", map[string]interface{}{
		"filename":    proof.Filename,
		"size":        proof.Size,
		"contentType": proof.ContentType,
	})
	return nil
}

func (m *Machine) refreshProjection(s *State) {
	quote, ok := m.calculator.Quote(s.Form.InvestmentAmount, s.Form.CustomAmount, s.Form.Duration)
	if !ok {
		s.ProjectedReturn = 0
		return
	}
	s.ProjectedReturn = quote.ProjectedReturn
}

func (m *Machine) move(s *State, to models.Step) {
	metrics.WizardTransitions.WithLabelValues(strconv.Itoa(int(s.Step)), strconv.Itoa(int(to))).Inc()
	s.Step = to
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
