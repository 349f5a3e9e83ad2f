package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tressahealth/moneyback/internal/types"
)

// Configuration is the single configuration object for the service, loaded
// once at startup and injected everywhere.
type Configuration struct {
	Deployment  DeploymentConfig  `mapstructure:"deployment"`
	Server      ServerConfig      `mapstructure:"server"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Eligibility EligibilityConfig `mapstructure:"eligibility"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN builds the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type LoggingConfig struct {
	Level          types.LogLevel `mapstructure:"level"`
	FluentdEnabled bool           `mapstructure:"fluentd_enabled"`
	FluentdHost    string         `mapstructure:"fluentd_host"`
	FluentdPort    int            `mapstructure:"fluentd_port"`
}

// EligibilityConfig carries the money-back policy knobs. The defaults are
// the policy constants; overriding them is an operational escape hatch, not
// a per-customer feature.
type EligibilityConfig struct {
	// RequiredConnectedCalls is the hair-coach call threshold.
	RequiredConnectedCalls int `mapstructure:"required_connected_calls"`
	// RequestWindowDays bounds how long after the final required kit order a
	// money-back request may be raised.
	RequestWindowDays int `mapstructure:"request_window_days"`
	// AllowedDaysEarly and AllowedDaysLate bound the kit-genuineness window
	// around each kit's expected cadence date.
	AllowedDaysEarly int `mapstructure:"allowed_days_early"`
	AllowedDaysLate  int `mapstructure:"allowed_days_late"`
	// DefaultDaysPerKit is used when a prescription has no products to
	// average a cadence from.
	DefaultDaysPerKit int `mapstructure:"default_days_per_kit"`
}

// NewConfig loads configuration from config/config.yaml plus MONEYBACK_*
// environment variables.
func NewConfig() (*Configuration, error) {
	v := viper.New()

	// .env is optional and only used for local development.
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MONEYBACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.RunModeAPI))
	v.SetDefault("server.address", ":8080")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "moneyback")
	v.SetDefault("postgres.password", "moneyback")
	v.SetDefault("postgres.dbname", "moneyback")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)

	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("logging.fluentd_enabled", false)

	v.SetDefault("eligibility.required_connected_calls", 3)
	v.SetDefault("eligibility.request_window_days", 30)
	v.SetDefault("eligibility.allowed_days_early", 5)
	v.SetDefault("eligibility.allowed_days_late", 7)
	v.SetDefault("eligibility.default_days_per_kit", 30)
}

// GetDefaultConfig returns a configuration with all defaults applied, used
// by tests and the global logger fallback.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.RunModeAPI},
		Server:     ServerConfig{Address: ":8080"},
		Postgres: PostgresConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "moneyback",
			Password:     "moneyback",
			DBName:       "moneyback",
			SSLMode:      "disable",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Logging: LoggingConfig{Level: types.LogLevelInfo},
		Eligibility: EligibilityConfig{
			RequiredConnectedCalls: 3,
			RequestWindowDays:      30,
			AllowedDaysEarly:       5,
			AllowedDaysLate:        7,
			DefaultDaysPerKit:      30,
		},
	}
}
