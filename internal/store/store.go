// Package store picks the increment backend named in the configuration.
package store

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/advayc/visits/internal/config"
	"github.com/advayc/visits/internal/store/pgstore"
	"github.com/advayc/visits/internal/store/postgrest"
	"github.com/advayc/visits/internal/store/redisstore"
	"github.com/advayc/visits/internal/visits"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the configured Incrementer and a Closer that releases it.
func Open(ctx context.Context, cfg *config.Config) (visits.Incrementer, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendPostgREST, "":
		return postgrest.New(cfg.SupabaseURL, cfg.SupabaseKey, &http.Client{}), nopCloser{}, nil
	case config.BackendPostgres:
		s, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendRedis:
		s, err := redisstore.Open(ctx, cfg.RedisURL, cfg.UpstashHost, cfg.UpstashPassword)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
