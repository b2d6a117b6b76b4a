package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverBolt     = "bolt"

	EventsDriverNone  = "none"
	EventsDriverRedis = "redis"
	EventsDriverKafka = "kafka"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	LogLevel       slog.Level
	StorageDriver  string
	BoltPath       string
	MigrationsPath string
	RunMigrations  bool

	JWTSecret string
	JWTIssuer string

	RateLimit string // formatted as "<limit>-<period>", e.g. "100-M"
	RedisURL  string

	EventsDrivers      []string // any of redis and kafka; empty publishes nowhere
	RedisEventsChannel string
	KafkaBrokers       []string
	KafkaTopic         string

	CORSAllowedOrigins []string

	PostingAccounts sources.AccountMap
}

// postingAccountDefaults match the chart shipped in configs/chart_of_accounts.yaml.
var postingAccountDefaults = map[string]string{
	"POSTING_ACCOUNT_CASH":                   "1000",
	"POSTING_ACCOUNT_ACCOUNTS_RECEIVABLE":    "1100",
	"POSTING_ACCOUNT_VAT_RECEIVABLE":         "1300",
	"POSTING_ACCOUNT_ACCOUNTS_PAYABLE":       "2000",
	"POSTING_ACCOUNT_VAT_PAYABLE":            "2100",
	"POSTING_ACCOUNT_OPENING_BALANCE_EQUITY": "3900",
	"POSTING_ACCOUNT_REVENUE":                "4000",
	"POSTING_ACCOUNT_SALES_DISCOUNT":         "4900",
	"POSTING_ACCOUNT_PURCHASES":              "5000",
	"POSTING_ACCOUNT_PURCHASE_DISCOUNT":      "5900",
	"POSTING_ACCOUNT_SALARY_EXPENSE":         "6000",
}

// LoadConfig loads configuration from environment variables, a .env file and, when
// CONFIG_FILE is set, a YAML file. Environment variables win over the file.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("BOLT_PATH", "ledger.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "ledger-posting-engine")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("EVENTS_DRIVER", EventsDriverNone)
	v.SetDefault("REDIS_EVENTS_CHANNEL", "ledger.events")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger.events")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	for key, def := range postingAccountDefaults {
		v.SetDefault(key, def)
	}

	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	account := func(key string) string { return strings.TrimSpace(v.GetString(key)) }

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		StorageDriver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
		BoltPath:           v.GetString("BOLT_PATH"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		RunMigrations:      v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		RedisURL:           v.GetString("REDIS_URL"),
		EventsDrivers:      splitList(strings.ToLower(v.GetString("EVENTS_DRIVER"))),
		RedisEventsChannel: v.GetString("REDIS_EVENTS_CHANNEL"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PostingAccounts: sources.AccountMap{
			Cash:                 account("POSTING_ACCOUNT_CASH"),
			AccountsReceivable:   account("POSTING_ACCOUNT_ACCOUNTS_RECEIVABLE"),
			AccountsPayable:      account("POSTING_ACCOUNT_ACCOUNTS_PAYABLE"),
			Revenue:              account("POSTING_ACCOUNT_REVENUE"),
			Purchases:            account("POSTING_ACCOUNT_PURCHASES"),
			VATPayable:           account("POSTING_ACCOUNT_VAT_PAYABLE"),
			VATReceivable:        account("POSTING_ACCOUNT_VAT_RECEIVABLE"),
			SalesDiscount:        account("POSTING_ACCOUNT_SALES_DISCOUNT"),
			PurchaseDiscount:     account("POSTING_ACCOUNT_PURCHASE_DISCOUNT"),
			SalaryExpense:        account("POSTING_ACCOUNT_SALARY_EXPENSE"),
			OpeningBalanceEquity: account("POSTING_ACCOUNT_OPENING_BALANCE_EQUITY"),
		},
	}

	level, err := parseLogLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("PGSQL_URL is required when STORAGE_DRIVER=postgres"))
		}
	case StorageDriverBolt:
		if c.BoltPath == "" {
			errs = append(errs, errors.New("BOLT_PATH is required when STORAGE_DRIVER=bolt"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	var drivers []string
	for _, d := range c.EventsDrivers {
		switch d {
		case EventsDriverNone:
			continue
		case EventsDriverRedis:
			if c.RedisURL == "" {
				errs = append(errs, errors.New("REDIS_URL is required when EVENTS_DRIVER includes redis"))
			}
		case EventsDriverKafka:
			if len(c.KafkaBrokers) == 0 {
				errs = append(errs, errors.New("KAFKA_BROKERS is required when EVENTS_DRIVER includes kafka"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown EVENTS_DRIVER %q", d))
		}
		drivers = append(drivers, d)
	}
	c.EventsDrivers = drivers

	if c.JWTSecret == "" {
		if c.IsProduction {
			errs = append(errs, errors.New("JWT_SECRET must be set in production"))
		} else {
			slog.Warn("JWT_SECRET not set. Using an insecure development secret.")
			c.JWTSecret = "insecure-development-secret"
		}
	}

	if err := c.PostingAccounts.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
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
