// internal/services/application/application-store/audit.go
package applicationstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

const (
	EventApplicationCreated       = "application_created"
	EventApplicationStatusChanged = "application_status_changed"

	resourceType = "application"
)

// AuditLog writes best-effort rows to the Postgres audit_log table.
type AuditLog struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAuditLog(db *sql.DB, log logger.Logger) *AuditLog {
	return &AuditLog{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType, "layer": "audit"}),
	}
}

// Record inserts one audit row. Failures are logged and reported as false.
func (a *AuditLog) Record(ctx context.Context, eventType, resourceID string, details map[string]interface{}, at time.Time) bool {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		a.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		detailsJSON = []byte("{}")
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventType,
		resourceType,
		resourceID,
		detailsJSON,
		at.UTC(),
	)
	if err != nil {
		a.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"eventType":     eventType,
			"applicationId": resourceID,
		})
		return false
	}
	return true
}

// AuditedStore records creations and status changes in the audit log.
type AuditedStore struct {
	Store
	audit *AuditLog
}

func NewAuditedStore(inner Store, audit *AuditLog) *AuditedStore {
	return &AuditedStore{Store: inner, audit: audit}
}

func (s *AuditedStore) Create(ctx context.Context, app *models.Application) (string, error) {
	id, err := s.Store.Create(ctx, app)
	if err != nil {
		return "", err
	}
	s.audit.Record(ctx, EventApplicationCreated, id, map[string]interface{}{
		"email":            app.Email,
		"investmentAmount": app.InvestmentAmount,
		"duration":         app.Duration,
		"status":           string(app.Status),
	}, app.CreatedAt)
	return id, nil
}

func (s *AuditedStore) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error) {
	app, err := s.Store.UpdateStatus(ctx, id, status, updatedAt)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, EventApplicationStatusChanged, id, map[string]interface{}{
		"status": string(status),
	}, updatedAt)
	return app, nil
}
