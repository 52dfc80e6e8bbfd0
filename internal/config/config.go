package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything cmd/api needs to wire the service.
type Config struct {
	Port      string
	Env       string
	DSN       string
	JWTSecret string
	TokenTTL  time.Duration
	UploadDir string
	RedisAddr string
	CacheTTL  time.Duration
}

// Load reads .env (if present) then the environment. Missing optional values
// fall back to development defaults; an empty JWT secret is refused outside
// of test wiring because tokens signed with it would be forgeable.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getenv("PORT", "8080"),
		Env:       getenv("APP_ENV", "development"),
		DSN:       os.Getenv("DATABASE_URL"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getduration("TOKEN_TTL_HOURS", 72) * time.Hour,
		UploadDir: getenv("UPLOAD_DIR", "uploads"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		CacheTTL:  getduration("CACHE_TTL_SECONDS", 30) * time.Second,
	}

	if cfg.DSN == "" {
		cfg.DSN = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			getenv("DB_USER", "postgres"),
			getenv("DB_PASSWORD", "postgres"),
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			getenv("DB_NAME", "skillmarket"),
		)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
