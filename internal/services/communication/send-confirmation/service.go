// internal/services/communication/send-confirmation/service.go
package sendconfirmation

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/metrics"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	calculateprojectedreturn "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/calculate-projected-return"
	emailsend "github.com/The-Young-Programer/Investor-Zteller/internal/services/communication/email-send"
)

const TaskType = "send-confirmation"

const Subject = "Investment Application Confirmation"

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) (*emailsend.Output, error)
}

// SMSSender is satisfied by the SNS client.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

var confirmationEmail = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Investment Application Confirmation</h2>
  <p>Dear {{.FullName}},</p>
  <p>Thank you for submitting your investment application to Zteller!</p>
  <p><strong>Investment Amount:</strong> {{.Amount}}</p>
  <p><strong>Duration:</strong> {{.Duration}} months</p>
  <p><strong>Projected Return:</strong> {{.ProjectedReturn}}</p>
  <p><strong>Application ID:</strong> {{.ApplicationID}}</p>
  <p>Our team will review your application and contact you shortly.</p>
  <p>Best regards,<br>Zteller Team</p>
</body>
</html>`))

// Dispatcher delivers confirmations off the request path.
type Dispatcher struct {
	config *Config
	mailer Mailer
	sms    SMSSender
	logger logger.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(config *Config, mailer Mailer, sms SMSSender, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		config: config,
		mailer: mailer,
		sms:    sms,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func RenderConfirmation(c models.Confirmation) (string, error) {
	var buf bytes.Buffer
	err := confirmationEmail.Execute(&buf, map[string]interface{}{
		"FullName":        c.FullName,
		"Amount":          calculateprojectedreturn.FormatNaira(c.InvestmentAmount),
		"Duration":        c.Duration,
		"ProjectedReturn": calculateprojectedreturn.FormatNaira(c.ProjectedReturn),
		"ApplicationID":   c.ApplicationID,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func SMSText(c models.Confirmation) string {
	return fmt.Sprintf("Zteller: we received your investment application of %s (ID %s). Our team will contact you shortly.",
		calculateprojectedreturn.FormatNaira(c.InvestmentAmount), c.ApplicationID)
}

// Dispatch renders and queues delivery. It returns once the work is queued.
func (d *Dispatcher) Dispatch(c models.Confirmation) error {
	html, err := RenderConfirmation(c)
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliveryTimeout)
		defer cancel()
		d.deliver(ctx, c, html)
	}()
	return nil
}

// Wait blocks until queued deliveries finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, c models.Confirmation, html string) {
	fields := map[string]interface{}{"applicationId": c.ApplicationID, "to": c.Email}

	if out, err := d.mailer.SendEmail(ctx, c.Email, Subject, html); err != nil {
		d.logger.Error("confirmation email failed", withError(fields, err))
	} else if out.Degraded {
		d.logger.Warn("confirmation email not delivered", withValue(fields, "warning", out.Warning))
	} else {
		d.logger.Info("confirmation email sent", withValue(fields, "messageId", out.MessageID))
	}

	if !d.config.SMSEnabled || d.sms == nil || strings.TrimSpace(c.Phone) == "" {
		return
	}

	id, err := d.sms.SendSMS(ctx, strings.TrimSpace(c.Phone), SMSText(c))
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("sms", "sns", "failed").Inc()
		d.logger.Error("confirmation sms failed", withError(fields, err))
		return
	}
	metrics.NotificationsSent.WithLabelValues("sms", "sns", "sent").Inc()
	d.logger.Info("confirmation sms sent", withValue(fields, "messageId", id))
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	return withValue(fields, "error", err.Error())
}

func withValue(fields map[string]interface{}, k string, v interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for key, val := range fields {
		out[key] = val
	}
	out[k] = v
	return out
}
