package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend names accepted in VISITS_BACKEND.
const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
	BackendRedis     = "redis"
)

type Config struct {
	SupabaseURL     string
	SupabaseKey     string
	Backend         string
	DatabaseURL     string
	RedisURL        string
	UpstashHost     string
	UpstashPassword string
	Port            string
	AllowedOrigins  []string
}

// Load reads configuration from the environment, after loading ENV_FILE
// (default .env) when it exists. The Supabase values are not validated.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("(warn) could not load %s: %v", envFile, err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("VISITS_BACKEND", BackendPostgREST)
	v.SetDefault("PORT", "8080")

	cfg := &Config{
		SupabaseURL:     v.GetString("SUPABASE_URL"),
		SupabaseKey:     v.GetString("SUPABASE_ANON_KEY"),
		Backend:         strings.ToLower(strings.TrimSpace(v.GetString("VISITS_BACKEND"))),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		RedisURL:        v.GetString("REDIS_URL"),
		UpstashHost:     v.GetString("UPSTASH_REDIS_URL"),
		UpstashPassword: v.GetString("UPSTASH_REDIS_PASSWORD"),
		Port:            v.GetString("PORT"),
		AllowedOrigins:  splitOrigins(v.GetString("ALLOWED_ORIGINS")),
	}

	switch cfg.Backend {
	case BackendPostgREST, BackendPostgres, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown VISITS_BACKEND %q", cfg.Backend)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
