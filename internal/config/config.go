package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"finance-cycles/internal/domain"
)

// EnvPrefix namespaces environment overrides, e.g. CYCLES_FINANCIAL_START_DAY.
const EnvPrefix = "CYCLES"

type Config struct {
	FinancialStartDay int               `mapstructure:"financial_start_day"`
	ReportingCurrency string            `mapstructure:"reporting_currency"`
	ExchangeRates     map[string]string `mapstructure:"exchange_rates"`
	DueSoonDays       int               `mapstructure:"due_soon_days"`
	Budgets           map[string]string `mapstructure:"budgets"`
	LogLevel          string            `mapstructure:"log_level"`
	Server            ServerConfig      `mapstructure:"server"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoadConfig reads the optional config file at path and applies CYCLES_*
// environment overrides on top of the defaults. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("financial_start_day", 1)
	v.SetDefault("reporting_currency", string(domain.CurrencyDOP))
	v.SetDefault("exchange_rates", map[string]string{})
	v.SetDefault("due_soon_days", domain.DefaultDueSoonDays)
	v.SetDefault("budgets", map[string]string{})
	v.SetDefault("log_level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Settings converts the loaded values into the settings passed to every
// report call.
func (c *Config) Settings() (domain.Settings, error) {
	rates := make(map[domain.Currency]decimal.Decimal, len(c.ExchangeRates))
	for code, raw := range c.ExchangeRates {
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%w: exchange rate for %s: %v", domain.ErrInvalidInput, code, err)
		}
		rates[domain.Currency(code).Normalize()] = rate
	}

	// viper lower-cases map keys, so categories are matched in lower case.
	budgets := make(map[string]decimal.Decimal, len(c.Budgets))
	for category, raw := range c.Budgets {
		limit, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%w: budget for %s: %v", domain.ErrInvalidInput, category, err)
		}
		if limit.IsNegative() {
			return domain.Settings{}, fmt.Errorf("%w: budget for %s must not be negative", domain.ErrInvalidInput, category)
		}
		budgets[strings.ToLower(strings.TrimSpace(category))] = limit
	}

	return domain.Settings{
		FinancialStartDay: c.FinancialStartDay,
		ReportingCurrency: domain.Currency(c.ReportingCurrency).Normalize(),
		ExchangeRates:     rates,
		DueSoonDays:       c.DueSoonDays,
		Budgets:           budgets,
	}, nil
}

func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
