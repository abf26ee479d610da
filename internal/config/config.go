package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// Projection
	WarningBalanceThreshold float64
	DangerBalanceThreshold  float64
	MonthsToProject         int

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID string
}

func Load() *Config {
	return &Config{
		WarningBalanceThreshold: getEnvFloat("WARNING_BALANCE_THRESHOLD", 5000),
		DangerBalanceThreshold:  getEnvFloat("DANGER_BALANCE_THRESHOLD", 2000),
		MonthsToProject:         getEnvInt("MONTHS_TO_PROJECT", 12),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/runway.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "runway"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "refresh_projection"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate thresholds
	if math.IsNaN(c.WarningBalanceThreshold) || math.IsInf(c.WarningBalanceThreshold, 0) {
		errors = append(errors, "warning balance threshold must be finite")
	}
	if math.IsNaN(c.DangerBalanceThreshold) || math.IsInf(c.DangerBalanceThreshold, 0) {
		errors = append(errors, "danger balance threshold must be finite")
	}
	if c.DangerBalanceThreshold > c.WarningBalanceThreshold {
		errors = append(errors, fmt.Sprintf("danger threshold %v exceeds warning threshold %v",
			c.DangerBalanceThreshold, c.WarningBalanceThreshold))
	}

	if c.MonthsToProject < 1 {
		errors = append(errors, fmt.Sprintf("invalid months to project %d: must be at least 1", c.MonthsToProject))
	} else if c.MonthsToProject > 120 {
		errors = append(errors, fmt.Sprintf("invalid months to project %d: must be at most 120", c.MonthsToProject))
	}

	// Validate data backend
	validBackends := []string{"memory", "sheets", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
