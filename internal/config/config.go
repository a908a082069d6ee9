package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Log struct {
		Level string
	}
	Account struct {
		Branch           string
		WithdrawalLimit  string          `mapstructure:"withdrawal_limit"`
		DailyWithdrawals int             `mapstructure:"daily_withdrawals"`
		PerWithdrawal    decimal.Decimal `mapstructure:"-"` // parsed WithdrawalLimit, set by Load
	}
	Journal struct {
		Driver string // memory or postgres
		DSN    string
	}
	Kafka struct {
		Brokers []string
		Topic   string
	}
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file in the working directory. Variables use the
// BANK_ prefix with dots replaced by underscores, e.g. BANK_JOURNAL_DSN.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional; existing env vars win

	v := viper.New()
	v.SetEnvPrefix("BANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("account.branch", "0001")
	v.SetDefault("account.withdrawal_limit", "500")
	v.SetDefault("account.daily_withdrawals", 3)
	v.SetDefault("journal.driver", "memory")
	v.SetDefault("journal.dsn", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "transaction_completed")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Account.Branch) == "" {
		return fmt.Errorf("account.branch must not be empty")
	}
	limit, err := parseWithdrawalLimit(c.Account.WithdrawalLimit)
	if err != nil {
		return err
	}
	c.Account.PerWithdrawal = limit
	if c.Account.DailyWithdrawals < 1 {
		return fmt.Errorf("account.daily_withdrawals must be at least 1")
	}
	switch c.Journal.Driver {
	case "memory":
	case "postgres":
		if c.Journal.DSN == "" {
			return fmt.Errorf("journal.dsn is required for the postgres journal")
		}
	default:
		return fmt.Errorf("unknown journal.driver %q", c.Journal.Driver)
	}
	return nil
}

func parseWithdrawalLimit(raw string) (decimal.Decimal, error) {
	limit, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !limit.IsPositive() {
		return decimal.Zero, fmt.Errorf("account.withdrawal_limit must be a positive number, got %q", raw)
	}
	return limit, nil
}
