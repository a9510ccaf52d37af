// Package redisstore keeps visit counts in Redis, one INCR key per company.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "visits:"

// ErrNotConfigured is returned by Open when neither REDIS_URL nor the
// Upstash host/password pair is set.
var ErrNotConfigured = errors.New("redis not configured")

type incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type Store struct {
	rc    incrementer
	close func() error
}

// BuildUpstashURL normalizes a host/password combo into a redis URL.
func BuildUpstashURL(rawHost, password string) string {
	if rawHost == "" || password == "" {
		return ""
	}
	if !strings.HasPrefix(rawHost, "redis://") && !strings.HasPrefix(rawHost, "rediss://") {
		rawHost = "rediss://" + rawHost
	}
	u, err := url.Parse(rawHost)
	if err != nil {
		return ""
	}
	if u.User == nil {
		u.User = url.UserPassword("default", password)
	}
	return u.String()
}

// Open parses redisURL (or builds one from the Upstash pair) and pings the
// server before returning.
func Open(ctx context.Context, redisURL, upstashHost, upstashPassword string) (*Store, error) {
	if redisURL == "" {
		redisURL = BuildUpstashURL(upstashHost, upstashPassword)
	}
	if redisURL == "" {
		return nil, ErrNotConfigured
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("redis enabled (addr=%s)", c.Options().Addr)
	return &Store{rc: c, close: c.Close}, nil
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// IncrementVisit ignores token; Redis has no notion of the caller.
func (s *Store) IncrementVisit(ctx context.Context, _ string, companyName string) (json.RawMessage, error) {
	n, err := s.rc.Incr(ctx, keyPrefix+companyName).Result()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(strconv.FormatInt(n, 10)), nil
}
