// internal/services/application/application-store/cache.go
package applicationstore

import (
	"context"
	"errors"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/database"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

const statusCachePrefix = "application-status:"

func StatusCacheKey(email string) string {
	return statusCachePrefix + email
}

// CachedStore serves ListByEmail from redis and invalidates on writes.
// Cache errors are logged and never fail the call.
type CachedStore struct {
	Store
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(inner Store, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CachedStore{
		Store:  inner,
		redis:  redis,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType, "layer": "cache"}),
	}
}

func (c *CachedStore) ListByEmail(ctx context.Context, email string) ([]models.StatusSummary, error) {
	key := StatusCacheKey(email)

	var cached []models.StatusSummary
	err := c.redis.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, database.ErrCacheMiss) {
		c.logger.Warn("status cache read failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}

	summaries, err := c.Store.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := c.redis.SetJSON(ctx, key, summaries, c.ttl); err != nil {
		c.logger.Warn("status cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
	return summaries, nil
}

func (c *CachedStore) Create(ctx context.Context, app *models.Application) (string, error) {
	id, err := c.Store.Create(ctx, app)
	if err != nil {
		return "", err
	}
	c.invalidate(ctx, app.Email)
	return id, nil
}

func (c *CachedStore) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error) {
	app, err := c.Store.UpdateStatus(ctx, id, status, updatedAt)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, app.Email)
	return app, nil
}

func (c *CachedStore) invalidate(ctx context.Context, email string) {
	if err := c.redis.Del(ctx, StatusCacheKey(email)); err != nil {
		c.logger.Warn("status cache invalidation failed", map[string]interface{}{
			"email": email,
			"error": err,
		})
	}
}
