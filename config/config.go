package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all runtime settings. Values come from the environment,
// with .env loaded first when present.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret   string
	AdminAPIKey string

	UploadDir        string
	PublicUploadPath string

	// Bounds for the catalog writer's external calls. A stalled image
	// upload or transaction commit is treated as a failure once the
	// deadline passes.
	UploadTimeout time.Duration
	CommitTimeout time.Duration

	TaxRate float64
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      buildDatabaseURL(),
		JWTSecret:        getenv("JWT_SECRET", ""),
		AdminAPIKey:      getenv("ADMIN_API_KEY", ""),
		UploadDir:        getenv("UPLOAD_DIR", "/var/www/cladily/uploads"),
		PublicUploadPath: getenv("PUBLIC_UPLOAD_PATH", "/uploads"),
		UploadTimeout:    getduration("UPLOAD_TIMEOUT", 30*time.Second),
		CommitTimeout:    getduration("COMMIT_TIMEOUT", 10*time.Second),
		TaxRate:          getfloat("TAX_RATE", 0.10),
	}
}

func buildDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", ""),
		getenv("DB_NAME", "cladily"),
		getenv("DB_PORT", "5432"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
