package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"churn-predictor/internal/common/config"
)

// PostgresStore loads the newest active bundle row from the model_bundles
// table. Each row holds the complete bundle document, so classifier and
// schema metadata can never skew across versions.
type PostgresStore struct {
	db *sql.DB
}

const selectActiveBundle = `
	SELECT payload
	FROM model_bundles
	WHERE active = true
	ORDER BY created_at DESC
	LIMIT 1`

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func NewPostgresStoreFromConfig(cfg config.PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, selectActiveBundle).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no active bundle in model_bundles")
		}
		return nil, fmt.Errorf("query active bundle: %w", err)
	}
	return payload, nil
}

func (s *PostgresStore) Describe() string {
	return "postgres:model_bundles"
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
