package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Queue    QueueConfig
	Ingest   IngestConfig
	LogLevel string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver          string // "pgx" or "sqlite"
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string
	MetricsAddr  string
	MaxUploadMB  int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// OCRConfig holds recognition-engine configuration
type OCRConfig struct {
	Enabled          bool
	Tesseract        string
	TesseractLang    string
	TessdataDir      string
	PSM              int
	OEM              int
	RecognizeTimeout time.Duration
}

// QueueConfig holds NATS queue configuration
type QueueConfig struct {
	URL     string
	Subject string
}

// IngestConfig holds drop-directory watcher configuration
type IngestConfig struct {
	Roots    []string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			DSN:             getEnv("DB_URL", "file:prequal.db?_pragma=busy_timeout(5000)"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr:         getEnv("HTTP_ADDR", ":8080"),
			MetricsAddr:  getEnv("METRICS_ADDR", ":9090"),
			MaxUploadMB:  int64(getEnvAsInt("MAX_UPLOAD_MB", 25)),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		},
		OCR: OCRConfig{
			Enabled:          getEnvAsBool("OCR_ENABLED", true),
			Tesseract:        getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang:    getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			PSM:              getEnvAsInt("TESSERACT_PSM", 0),
			OEM:              getEnvAsInt("TESSERACT_OEM", 0),
			RecognizeTimeout: getEnvAsDuration("OCR_RECOGNIZE_TIMEOUT", 30*time.Second),
		},
		Queue: QueueConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "prequal.documents.analyze"),
		},
		Ingest: IngestConfig{
			Roots:    splitNonEmpty(getEnv("INGEST_ROOTS", "")),
			Debounce: getEnvAsDuration("INGEST_DEBOUNCE", 500*time.Millisecond),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Database.Driver != "pgx" && c.Database.Driver != "sqlite" {
		return NewAppError("CONFIG_ERROR", "DB_DRIVER must be pgx or sqlite", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
