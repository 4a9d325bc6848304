// internal/services/application/application-store/store.go
package applicationstore

import (
	"context"
	"errors"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

const TaskType = "application-store"

var (
	ErrNotFound = errors.New("APPLICATION_NOT_FOUND")
)

// Store persists investment applications.
type Store interface {
	Create(ctx context.Context, app *models.Application) (string, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	ListByEmail(ctx context.Context, email string) ([]models.StatusSummary, error)
}
