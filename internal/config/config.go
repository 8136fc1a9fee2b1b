// Package config loads runtime settings for the OCR keyword server from the
// environment. Every setting has a default so the server runs with no
// environment at all.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvLogLevel      = "OCR_MCP_LOG_LEVEL"
	EnvLanguage      = "OCR_MCP_LANGUAGE"
	EnvTessdata      = "TESSDATA_PREFIX"
	EnvWorkers       = "OCR_MCP_WORKERS"
	EnvErrorFlash    = "OCR_MCP_ERROR_FLASH"
	EnvThumbnailSize = "OCR_MCP_THUMBNAIL_SIZE"
	EnvMaxFileBytes  = "OCR_MCP_MAX_FILE_BYTES"
	EnvMatchTimeout  = "OCR_MCP_MATCH_TIMEOUT"
	EnvBatchHistory  = "OCR_MCP_BATCH_HISTORY"
)

// Config holds all server configuration.
type Config struct {
	LogLevel slog.Level
	OCR      OCRConfig
	Intake   IntakeConfig
	Keywords KeywordConfig
}

// OCRConfig configures the recognition workers.
type OCRConfig struct {
	// Language is the Tesseract language code loaded and initialized on every worker.
	Language string
	// TessdataDir overrides the directory holding *.traineddata files. Empty
	// means the Tesseract default.
	TessdataDir string
	// Workers is the number of recognition workers attached to the scheduler.
	Workers int
}

// IntakeConfig configures batch handling.
type IntakeConfig struct {
	// ErrorFlash is how long the error class stays on the container after a
	// failed batch.
	ErrorFlash time.Duration
	// ThumbnailSize is the longest side, in pixels, of gallery thumbnails.
	ThumbnailSize int
	// MaxFileBytes caps how much of a single file is read.
	MaxFileBytes int64
	// BatchHistory is how many finished batch results stay queryable.
	BatchHistory int
}

// KeywordConfig configures keyword matching.
type KeywordConfig struct {
	// MatchTimeout bounds a single FindAll over recognized text.
	MatchTimeout time.Duration
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		LogLevel: slog.LevelInfo,
		OCR: OCRConfig{
			Language: "eng",
			Workers:  1,
		},
		Intake: IntakeConfig{
			ErrorFlash:    3 * time.Second,
			ThumbnailSize: 160,
			MaxFileBytes:  32 << 20,
			BatchHistory:  100,
		},
		Keywords: KeywordConfig{
			MatchTimeout: 2 * time.Second,
		},
	}
}

// Load builds a Config from environment variables, falling back to Default
// for anything unset or unparsable.
func Load() *Config {
	d := Default()
	return &Config{
		LogLevel: getEnvAsLevel(EnvLogLevel, d.LogLevel),
		OCR: OCRConfig{
			Language:    getEnv(EnvLanguage, d.OCR.Language),
			TessdataDir: getEnv(EnvTessdata, d.OCR.TessdataDir),
			Workers:     getEnvAsInt(EnvWorkers, d.OCR.Workers),
		},
		Intake: IntakeConfig{
			ErrorFlash:    getEnvAsDuration(EnvErrorFlash, d.Intake.ErrorFlash),
			ThumbnailSize: getEnvAsInt(EnvThumbnailSize, d.Intake.ThumbnailSize),
			MaxFileBytes:  getEnvAsInt64(EnvMaxFileBytes, d.Intake.MaxFileBytes),
			BatchHistory:  getEnvAsInt(EnvBatchHistory, d.Intake.BatchHistory),
		},
		Keywords: KeywordConfig{
			MatchTimeout: getEnvAsDuration(EnvMatchTimeout, d.Keywords.MatchTimeout),
		},
	}
}

// Validate reports settings that would leave the server unable to work.
func (c *Config) Validate() error {
	if c.OCR.Language == "" {
		return fmt.Errorf("%s must not be empty", EnvLanguage)
	}
	if c.OCR.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvWorkers, c.OCR.Workers)
	}
	if c.Intake.ThumbnailSize < 1 {
		return fmt.Errorf("%s must be positive, got %d", EnvThumbnailSize, c.Intake.ThumbnailSize)
	}
	if c.Intake.MaxFileBytes < 1 {
		return fmt.Errorf("%s must be positive, got %d", EnvMaxFileBytes, c.Intake.MaxFileBytes)
	}
	if c.Intake.BatchHistory < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvBatchHistory, c.Intake.BatchHistory)
	}
	if c.Intake.ErrorFlash < 0 {
		return fmt.Errorf("%s must not be negative, got %s", EnvErrorFlash, c.Intake.ErrorFlash)
	}
	return nil
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return defaultValue
}
