package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Asset index
	DBConnection string

	// Storage
	StorageDriver string // "local" or "s3"
	StorageRoot   string // local driver: private directory for asset files
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // optional: MinIO, DO Spaces, R2, etc.

	// Signed URLs
	URLSigningSecret string
	URLTTL           time.Duration

	// Rendering
	ThumbSize int

	// Uploads
	MaxUploadMB int64

	// Retention
	RetentionDays int

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "photomock"),
		AppEnv:  envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // base URL embedded in signed links
		Port:    envString("PORT", "8090"),

		DBConnection: envString("DB_CONNECTION", "./data/photomock.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		StorageDriver: envString("STORAGE_DRIVER", "local"),
		StorageRoot:   envString("STORAGE_ROOT", "./data/assets"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),

		URLSigningSecret: envRequired("URL_SIGNING_SECRET"),
		URLTTL:           envDuration("URL_TTL", 1*time.Hour),

		ThumbSize: envInt("THUMB_SIZE", 200),

		MaxUploadMB: int64(envInt("MAX_UPLOAD_MB", 15)),

		RetentionDays: envInt("RETENTION_DAYS", 30),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures settings that merely degrade development
// are hard requirements in production.
func validateProduction(cfg *Config) {
	if cfg.StorageDriver == "s3" && (cfg.S3Region == "" || cfg.S3Bucket == "") {
		slog.Error("production S3 storage requires S3_REGION and S3_BUCKET")
		os.Exit(1)
	}
	if len(cfg.URLSigningSecret) < 32 {
		slog.Error("production deployment requires URL_SIGNING_SECRET of at least 32 characters")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Retention returns the retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
