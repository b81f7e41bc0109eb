// Package store provides the storage backends a model bundle can be loaded
// from. Each backend returns the raw bundle document; decoding and
// validation happen in the artifact manager.
package store

import (
	"context"
	"fmt"

	"churn-predictor/internal/common/config"
)

// Store loads the current raw bundle document from a storage location.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Describe() string
}

// NewFromConfig builds the store selected by artifact.source.
func NewFromConfig(cfg config.ArtifactConfig) (Store, error) {
	switch cfg.Source {
	case "file":
		return NewFileStore(cfg.Path), nil
	case "postgres":
		return NewPostgresStoreFromConfig(cfg.Postgres)
	case "redis":
		return NewRedisStoreFromConfig(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unsupported artifact source %q", cfg.Source)
	}
}
