package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Addr                 string
	LogLevel             string
	LogFormat            string
	StoreDriver          string
	DBPath               string
	UploadDir            string
	UploadMaxBytes       int64
	DefaultLanguage      string
	ReportEndpoint       string
	ReportTimeout        time.Duration
	ReportWorkerCount    int
	ReportQueueSize      int
	SessionTTL           time.Duration
	SimilarityMetric     string
	WordMatchThreshold   float64
	PassThreshold        float64
	PartialThreshold     float64
	WholeStringLanguages []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		LogLevel:             strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		LogFormat:            envOr("LOG_FORMAT", "console"),
		StoreDriver:          envOr("STORE_DRIVER", StoreMemory),
		DBPath:               envOr("DB_PATH", "file:lingoplay.db"),
		UploadDir:            envOr("UPLOAD_DIR", "uploads"),
		UploadMaxBytes:       int64(envIntOr("UPLOAD_MAX_BYTES", 5*1024*1024)),
		DefaultLanguage:      envOr("DEFAULT_LANGUAGE", "en"),
		ReportEndpoint:       envOr("REPORT_ENDPOINT", ""),
		ReportTimeout:        envDurationOr("REPORT_TIMEOUT", 10*time.Second),
		ReportWorkerCount:    envIntOr("REPORT_WORKER_COUNT", 2),
		ReportQueueSize:      envIntOr("REPORT_QUEUE_SIZE", 64),
		SessionTTL:           envDurationOr("SESSION_TTL", 30*time.Minute),
		SimilarityMetric:     envOr("SIMILARITY_METRIC", "dice"),
		WordMatchThreshold:   envFloatOr("WORD_MATCH_THRESHOLD", 0.7),
		PassThreshold:        envFloatOr("PASS_THRESHOLD", 0.6),
		PartialThreshold:     envFloatOr("PARTIAL_THRESHOLD", 0.3),
		WholeStringLanguages: envListOr("WHOLE_STRING_LANGUAGES", []string{"te", "hi", "ja", "zh", "th"}),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	switch c.LogFormat {
	case "console", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of console, text, json", c.LogFormat))
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when STORE_DRIVER=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of memory, sqlite", c.StoreDriver))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR cannot be empty"))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.DefaultLanguage == "" {
		errs = append(errs, errors.New("DEFAULT_LANGUAGE cannot be empty"))
	}
	if c.ReportTimeout <= 0 {
		errs = append(errs, errors.New("REPORT_TIMEOUT must be positive"))
	}
	if c.ReportWorkerCount <= 0 {
		errs = append(errs, errors.New("REPORT_WORKER_COUNT must be positive"))
	}
	if c.ReportQueueSize <= 0 {
		errs = append(errs, errors.New("REPORT_QUEUE_SIZE must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	switch strings.ToLower(c.SimilarityMetric) {
	case "dice", "levenshtein":
	default:
		errs = append(errs, fmt.Errorf("SIMILARITY_METRIC %q is not one of dice, levenshtein", c.SimilarityMetric))
	}
	for name, v := range map[string]float64{
		"WORD_MATCH_THRESHOLD": c.WordMatchThreshold,
		"PASS_THRESHOLD":       c.PassThreshold,
		"PARTIAL_THRESHOLD":    c.PartialThreshold,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, v))
		}
	}
	if c.PartialThreshold > c.PassThreshold {
		errs = append(errs, errors.New("PARTIAL_THRESHOLD cannot exceed PASS_THRESHOLD"))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.ToLower(item))
		}
	}
	return out
}
