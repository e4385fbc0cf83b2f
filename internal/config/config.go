package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string

	// Upload constraints
	MaxFileSize int64

	// GCP / Vertex AI
	GCPProjectID string
	GCPRegion    string
	GCSBucket    string
	GeminiModel  string

	// Notification
	NotificationEmail string
	SMTPHost          string
	SMTPPort          string
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string

	// Tracing
	OTLPEndpoint     string
	TraceSampleRatio float64
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/NID_information"),
		DBName:      getEnv("DB_NAME", "NID_information"),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", 10485760), // 10MB

		GCPProjectID: getEnv("GCP_PROJECT_ID", "edge-trainee"),
		GCPRegion:    getEnv("GCP_REGION", "us-central1"),
		GCSBucket:    getEnv("GCS_BUCKET_NAME", "mongo_nid"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash-002"),

		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPass:          getEnv("SMTP_PASS", ""),
		SMTPFrom:          getEnv("SMTP_FROM", ""),

		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", "localhost:4317"),
		TraceSampleRatio: getEnvFloat64("TRACE_SAMPLE_RATIO", 0.1),
	}

	// Validate required fields
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID is required - set it in .env file")
	}

	if cfg.GCSBucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME is required - set it in .env file")
	}

	if cfg.NotificationEmail == "" {
		return nil, fmt.Errorf("NOTIFICATION_EMAIL is required - set it in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
