// Package pgstore calls increment_visit directly on Postgres.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/lib/pq"
)

// Store increments visits through a database/sql handle.
type Store struct {
	db *sql.DB
}

// Open connects with the lib/pq driver and pings the database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

// New wraps an already opened db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

// IncrementVisit runs increment_visit in a transaction that carries the
// caller's JWT claims in request.jwt.claims, as PostgREST does.
func (s *Store) IncrementVisit(ctx context.Context, token, companyName string) (json.RawMessage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT set_config('request.jwt.claims', $1, true)`, claimsJSON(token)); err != nil {
		return nil, err
	}

	var visits []byte
	if err := tx.QueryRowContext(ctx, `SELECT to_json(increment_visit($1))`, companyName).Scan(&visits); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(visits), nil
}

// claimsJSON decodes token without verifying it. The database is the one
// that decides what the claims are worth.
func claimsJSON(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "{}"
	}
	b, err := json.Marshal(claims)
	if err != nil {
		return "{}"
	}
	return string(b)
}
