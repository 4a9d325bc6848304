// internal/services/application/submit-application/notifier.go
package submitapplication

import (
	"context"
	"errors"
	"fmt"

	commonhttp "github.com/The-Young-Programer/Investor-Zteller/internal/common/http"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/metrics"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

var (
	ErrNotificationFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// HTTPNotifier posts the admin payload to the notification endpoint.
type HTTPNotifier struct {
	client   *commonhttp.Client
	endpoint string
	logger   logger.Logger
}

func NewHTTPNotifier(client *commonhttp.Client, endpoint string, log logger.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		client:   client,
		endpoint: endpoint,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType, "component": "notifier"}),
	}
}

// NotifyAdmin returns an error for transport failures, non-2xx responses and
// bodies that are not valid JSON.
func (n *HTTPNotifier) NotifyAdmin(ctx context.Context, payload models.AdminNotification) error {
	var resp models.NotificationResponse
	if err := n.client.PostJSON(ctx, n.endpoint, payload, &resp); err != nil {
		metrics.NotificationsSent.WithLabelValues("admin_email", "http", "failed").Inc()
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	if resp.Warning != "" {
		metrics.NotificationsSent.WithLabelValues("admin_email", "http", "degraded").Inc()
		n.logger.Warn("admin notification degraded", map[string]interface{}{
			"applicationId": payload.ApplicationID,
			"warning":       resp.Warning,
		})
		return nil
	}

	metrics.NotificationsSent.WithLabelValues("admin_email", "http", "sent").Inc()
	n.logger.Info("admin notification sent", map[string]interface{}{
		"applicationId": payload.ApplicationID,
		"messageId":     resp.MessageID,
	})
	return nil
}
