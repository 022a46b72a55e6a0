package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoplay/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                 ":8080",
		LogLevel:             "INFO",
		LogFormat:            "console",
		StoreDriver:          config.StoreMemory,
		DBPath:               "test.db",
		UploadDir:            "uploads",
		UploadMaxBytes:       5 << 20,
		DefaultLanguage:      "en",
		ReportTimeout:        time.Second,
		ReportWorkerCount:    2,
		ReportQueueSize:      64,
		SessionTTL:           time.Minute,
		SimilarityMetric:     "dice",
		WordMatchThreshold:   0.7,
		PassThreshold:        0.6,
		PartialThreshold:     0.3,
		WholeStringLanguages: []string{"te"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_SQLiteNeedsDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""
	assert.NoError(t, cfg.Validate(), "memory store ignores DB_PATH")

	cfg.StoreDriver = config.StoreSQLite
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "invalid level", level: "INVALID"},
		{name: "empty level", level: ""},
		{name: "lowercase valid level", level: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				// Lowercase should be accepted (converted to uppercase)
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_Thresholds(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "word threshold above one",
			mutate:        func(c *config.Config) { c.WordMatchThreshold = 1.2 },
			expectedError: "WORD_MATCH_THRESHOLD",
		},
		{
			name:          "negative pass threshold",
			mutate:        func(c *config.Config) { c.PassThreshold = -0.1 },
			expectedError: "PASS_THRESHOLD",
		},
		{
			name:          "partial above pass",
			mutate:        func(c *config.Config) { c.PartialThreshold = 0.8 },
			expectedError: "PARTIAL_THRESHOLD cannot exceed PASS_THRESHOLD",
		},
		{
			name:          "unknown metric",
			mutate:        func(c *config.Config) { c.SimilarityMetric = "cosine" },
			expectedError: "SIMILARITY_METRIC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:             "",
		LogLevel:         "INVALID",
		LogFormat:        "xml",
		StoreDriver:      "postgres",
		SimilarityMetric: "dice",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "LOG_FORMAT")
	assert.Contains(t, errStr, "STORE_DRIVER")
	assert.Contains(t, errStr, "UPLOAD_DIR")
	assert.Contains(t, errStr, "UPLOAD_MAX_BYTES")
	assert.Contains(t, errStr, "DEFAULT_LANGUAGE")
	assert.Contains(t, errStr, "REPORT_TIMEOUT")
	assert.Contains(t, errStr, "REPORT_WORKER_COUNT")
	assert.Contains(t, errStr, "REPORT_QUEUE_SIZE")
	assert.Contains(t, errStr, "SESSION_TTL")
}

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, config.StoreMemory, cfg.StoreDriver)
	assert.Equal(t, int64(5*1024*1024), cfg.UploadMaxBytes)
	assert.Equal(t, 0.7, cfg.WordMatchThreshold)
	assert.Equal(t, []string{"te", "hi", "ja", "zh", "th"}, cfg.WholeStringLanguages)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("PASS_THRESHOLD", "0.65")
	t.Setenv("WHOLE_STRING_LANGUAGES", " TE, hi ,,")
	t.Setenv("REPORT_QUEUE_SIZE", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, config.StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.Equal(t, 0.65, cfg.PassThreshold)
	assert.Equal(t, []string{"te", "hi"}, cfg.WholeStringLanguages)
	assert.Equal(t, 64, cfg.ReportQueueSize)
}
