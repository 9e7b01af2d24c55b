package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Operator   OperatorConfig   `mapstructure:"operator"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Email      EmailConfig      `mapstructure:"email"`
	Membership MembershipConfig `mapstructure:"membership"`
	Events     EventsConfig     `mapstructure:"events"`
	Demo       DemoConfig       `mapstructure:"demo"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"` // debug, release, test
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig describes the Postgres store. An empty URL leaves the
// store unconfigured; the API still starts and storage-backed routes
// answer with a "storage not configured" error.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// Configured reports whether a connection string is present.
func (d DatabaseConfig) Configured() bool {
	return strings.TrimSpace(d.URL) != ""
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// OperatorConfig is the single dashboard operator account.
// PasswordHash is an argon2id encoded hash; Companies lists the company ids
// the operator may query on the membership path ("*" grants all).
type OperatorConfig struct {
	Username     string   `mapstructure:"username"`
	PasswordHash string   `mapstructure:"password_hash"`
	Companies    []string `mapstructure:"companies"`
}

type WebhookConfig struct {
	PaymentFailedSecret     string        `mapstructure:"payment_failed_secret"`
	MembershipInvalidSecret string        `mapstructure:"membership_invalid_secret"`
	Tolerance               time.Duration `mapstructure:"tolerance"`
}

type EmailConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	From    string        `mapstructure:"from"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether the email provider key is present.
func (e EmailConfig) Configured() bool {
	return e.APIKey != ""
}

type MembershipConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	AppID       string        `mapstructure:"app_id"`
	AgentUserID string        `mapstructure:"agent_user_id"`
	CompanyID   string        `mapstructure:"company_id"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// Configured reports whether both required membership API settings are set.
func (m MembershipConfig) Configured() bool {
	return m.APIKey != "" && m.AppID != ""
}

type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
}

type DemoConfig struct {
	CompanyID string `mapstructure:"company_id"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from a .env file, a config file and environment
// variables, in increasing order of precedence. Prefix: DUNNING_.
// Nested keys use underscore: DUNNING_DATABASE_URL, DUNNING_EMAIL_API_KEY, etc.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "dunning-dashboard")
	v.SetDefault("operator.username", "admin")
	v.SetDefault("operator.password_hash", "")
	v.SetDefault("operator.companies", []string{"*"})
	v.SetDefault("webhook.payment_failed_secret", "")
	v.SetDefault("webhook.membership_invalid_secret", "")
	v.SetDefault("webhook.tolerance", "5m")
	v.SetDefault("email.api_key", "")
	v.SetDefault("email.base_url", "https://api.resend.com")
	v.SetDefault("email.from", "DunningPro <noreply@dunningpro.com>")
	v.SetDefault("email.timeout", "10s")
	v.SetDefault("membership.api_key", "")
	v.SetDefault("membership.app_id", "")
	v.SetDefault("membership.agent_user_id", "")
	v.SetDefault("membership.company_id", "")
	v.SetDefault("membership.base_url", "https://api.whop.com/api/v5")
	v.SetDefault("membership.timeout", "10s")
	v.SetDefault("membership.cache_ttl", "30s")
	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "dunning.events")
	v.SetDefault("demo.company_id", "default")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// DUNNING_DATABASE_URL -> database.url
	v.SetEnvPrefix("DUNNING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
