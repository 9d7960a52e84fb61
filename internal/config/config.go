// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage driver names accepted by STORAGE_DRIVER.
const (
	DriverMinio  = "minio"
	DriverS3     = "s3"
	DriverAzure  = "azure"
	DriverMemory = "memory"
)

// Overlap policies accepted by GALLERY_OVERLAP.
const (
	OverlapQueue  = "queue"
	OverlapReject = "reject"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime configuration for the service.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	SentryDSN string

	// Object storage. Which fields are required depends on StorageDriver.
	StorageDriver string

	// minio and s3
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StorageUseSSL     bool
	StoragePublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/gallery"
	StorageRegion     string
	StoragePathStyle  bool

	// azure: account + container + pre-issued SAS token
	StorageAccount   string
	StorageContainer string
	StorageSAS       string

	UploadMaxBytes     int64
	GalleryOverlap     string
	CORSAllowedOrigins []string
	WriteTimeout       time.Duration

	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment")
	}

	driver := strings.ToLower(getEnv("STORAGE_DRIVER", DriverMinio))
	defaultEndpoint, defaultPublicBase := "", ""
	if driver == DriverMinio {
		defaultEndpoint, defaultPublicBase = "localhost:9000", "http://localhost:9000/gallery"
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		StorageDriver: driver,

		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", defaultEndpoint),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "gallery"),
		StorageUseSSL:     getBool("STORAGE_USE_SSL", false),
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", defaultPublicBase),
		StorageRegion:     getEnv("STORAGE_REGION", "us-east-1"),
		StoragePathStyle:  getBool("STORAGE_PATH_STYLE", true),

		StorageAccount:   getEnv("STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("STORAGE_CONTAINER", ""),
		StorageSAS:       getEnv("STORAGE_SAS", ""),

		UploadMaxBytes:     getInt64("UPLOAD_MAX_BYTES", 100<<20),
		GalleryOverlap:     strings.ToLower(getEnv("GALLERY_OVERLAP", OverlapQueue)),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		WriteTimeout:       getDuration("SERVER_WRITE_TIMEOUT", 2*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "gallery"),
	}
}

// Validate checks that the fields required by the selected storage driver are set.
func (c *Config) Validate() error {
	var errs []error
	missing := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%w: %s is required for driver %q", ErrInvalid, key, c.StorageDriver))
		}
	}

	switch c.StorageDriver {
	case DriverMinio, DriverS3:
		if c.StorageDriver == DriverMinio {
			missing("STORAGE_ENDPOINT", c.StorageEndpoint)
		}
		missing("STORAGE_ACCESS_KEY", c.StorageAccessKey)
		missing("STORAGE_SECRET_KEY", c.StorageSecretKey)
		missing("STORAGE_BUCKET", c.StorageBucket)
	case DriverAzure:
		missing("STORAGE_ACCOUNT", c.StorageAccount)
		missing("STORAGE_CONTAINER", c.StorageContainer)
		missing("STORAGE_SAS", c.StorageSAS)
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalid, c.StorageDriver))
	}

	switch c.GalleryOverlap {
	case OverlapQueue, OverlapReject:
	default:
		errs = append(errs, fmt.Errorf("%w: GALLERY_OVERLAP must be %q or %q", ErrInvalid, OverlapQueue, OverlapReject))
	}

	if c.UploadMaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: UPLOAD_MAX_BYTES must be positive", ErrInvalid))
	}

	return errors.Join(errs...)
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
