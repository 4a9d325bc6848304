package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient backs the audit log.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// EnsureAuditSchema creates the audit_log table when missing.
func (c *PostgresClient) EnsureAuditSchema(ctx context.Context) error {
	_, err := c.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_log (
			id            BIGSERIAL PRIMARY KEY,
			event_type    TEXT        NOT NULL,
			resource_type TEXT        NOT NULL,
			resource_id   TEXT        NOT NULL,
			details       JSONB       NOT NULL DEFAULT '{}',
			created_at    TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create audit_log: %w", err)
	}
	return nil
}
