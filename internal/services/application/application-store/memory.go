// internal/services/application/application-store/memory.go
package applicationstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used by tests and local runs without Mongo.
type MemoryStore struct {
	mu   sync.RWMutex
	apps map[string]models.Application
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]models.Application)}
}

func (m *MemoryStore) Create(_ context.Context, app *models.Application) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	app.ID = primitive.NewObjectID().Hex()
	m.apps[app.ID] = *app
	return app.ID, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Application, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.apps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &app, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.apps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	at := updatedAt.UTC()
	app.Status = status
	app.UpdatedAt = &at
	m.apps[id] = app
	return &app, nil
}

func (m *MemoryStore) List(_ context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Application, 0, len(m.apps))
	for _, app := range m.apps {
		switch {
		case filter.Email != "":
			if app.Email != filter.Email {
				continue
			}
		case filter.Status != "":
			if app.Status != filter.Status {
				continue
			}
		}
		out = append(out, app)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) ListByEmail(ctx context.Context, email string) ([]models.StatusSummary, error) {
	apps, err := m.List(ctx, models.ApplicationFilter{Email: email})
	if err != nil {
		return nil, err
	}
	return summarize(apps), nil
}
