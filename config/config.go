// Package config loads server configuration from the environment and builds
// the shared logger.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Settlement SettlementConfig
	WhatsApp   WhatsAppConfig
}

// AppConfig holds HTTP server configuration
type AppConfig struct {
	Port          int
	LogLevel      string
	CORSOrigins   []string
	PaydayCheck   time.Duration
	SchedulerOn   bool
	CurrencyLabel string
}

type DatabaseConfig struct {
	Path string
}

type SettlementConfig struct {
	MaxAttempts           int
	StrictRepaymentPeriod bool
}

// WhatsAppConfig is optional; an empty token disables the dispatcher.
type WhatsAppConfig struct {
	URL      string
	Token    string
	Template string
}

func (w WhatsAppConfig) Enabled() bool {
	return w.URL != "" && w.Token != ""
}

// Load reads .env (if present) then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	interval, err := time.ParseDuration(getEnv("PAYDAY_CHECK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYDAY_CHECK_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid PAYDAY_CHECK_INTERVAL: %s is not positive", interval)
	}
	schedulerOn, err := strconv.ParseBool(getEnv("PAYDAY_SCHEDULER", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYDAY_SCHEDULER: %w", err)
	}

	config.App = AppConfig{
		Port:          port,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:8081,http://localhost:19006")),
		PaydayCheck:   interval,
		SchedulerOn:   schedulerOn,
		CurrencyLabel: getEnv("CURRENCY_LABEL", "IQD"),
	}

	config.Database = DatabaseConfig{
		Path: getEnv("DB_PATH", "payroll.db"),
	}

	attempts, err := strconv.Atoi(getEnv("SETTLEMENT_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTLEMENT_MAX_ATTEMPTS: %w", err)
	}
	strict, err := strconv.ParseBool(getEnv("STRICT_REPAYMENT_PERIOD", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_REPAYMENT_PERIOD: %w", err)
	}
	config.Settlement = SettlementConfig{
		MaxAttempts:           attempts,
		StrictRepaymentPeriod: strict,
	}

	config.WhatsApp = WhatsAppConfig{
		URL:      getEnv("WA_API_URL", ""),
		Token:    getEnv("WA_ACCESS_TOKEN", ""),
		Template: getEnv("WA_TEMPLATE", "confirmation2"),
	}

	return config, nil
}

// NewLogger builds a JSON logrus logger at the given level (info on parse error).
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
