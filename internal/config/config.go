// Package config loads server configuration from an optional YAML file
// plus environment variables. Env vars always win so deployments can
// override a checked-in config.yml without editing it.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            string        `yaml:"port"`
	DatabaseURL     string        `yaml:"database_url"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	WorkoutCapacity int           `yaml:"workout_capacity"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min"`
}

// Load reads .env.local, then config.yml (if path is non-empty and the
// file exists), then environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		Port:            "5050",
		TokenTTL:        6 * time.Hour,
		WorkoutCapacity: 12,
		RateLimitPerMin: 120,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("WORKOUT_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WorkoutCapacity = n
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("RATE_LIMIT_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMin = n
		}
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
