// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present, so the rest of the application can rely on them.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Layer them over built-in defaults.
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists in the working directory it is
	// loaded into the process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the DASHBOARD_ prefix. The prefix is stripped,
	the key is lowercased and "." expresses nesting:

	  DASHBOARD_DATABASE.HOST      -> database.host      -> Config.Database.Host
	  DASHBOARD_SEED.BCRYPT_COST   -> seed.bcrypt_cost   -> Config.Seed.BcryptCost

	Underscores are kept as-is, so multi-word keys stay snake_case.
	List values (CORS origins, health checks) are comma-separated.
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "DASHBOARD_"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags tell koanf where to map values from, the
// `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected in LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Seed          SeedConfig           `koanf:"seed" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// It tags logs/traces and switches behavior based on env ("local" turns on SQL logging).
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// For a hosted Postgres (Supabase and friends) point Host at the pooler
// endpoint and keep SSLMode at "require".
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Redis backs the background job queue.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores authentication-related secrets.
//
// SecretKey is the Clerk secret key. It is optional: without it the
// seed endpoint cannot be guarded (see SeedConfig.RequireAuth).
type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
}

// IntegrationConfig holds third-party API keys.
type IntegrationConfig struct {
	// ResendAPIKey enables seed report emails. Empty disables them.
	ResendAPIKey string `koanf:"resend_api_key"`
}

// SeedConfig tunes the demo data seeder and the invoice query.
type SeedConfig struct {
	// BcryptCost is the work factor used to hash placeholder passwords.
	BcryptCost int `koanf:"bcrypt_cost" validate:"min=4,max=31"`

	// Concurrency bounds how many upserts of one table run at the same time.
	Concurrency int `koanf:"concurrency" validate:"min=1"`

	// QueryAmount is the invoice amount GET /query filters on when the
	// request does not carry one.
	QueryAmount int `koanf:"query_amount" validate:"min=1"`

	// RateLimit is the number of /seed requests per second allowed per client IP.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`

	// RequireAuth guards /seed with Clerk. Needs Auth.SecretKey.
	RequireAuth bool `koanf:"require_auth"`

	// NotifyEmail receives a report after every successful seed. Optional.
	NotifyEmail string `koanf:"notify_email" validate:"omitempty,email"`
}

// defaults are loaded before the environment, so any env var overrides them.
var defaults = map[string]any{
	"seed.bcrypt_cost":  10,
	"seed.concurrency":  8,
	"seed.query_amount": 666,
	"seed.rate_limit":   1.0,
}

// listKeys are the keys whose env value is a comma-separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, validates it, applies defaults and returns the resulting config.
//
// Behavior summary:
//   - Loads defaults, then env vars with prefix DASHBOARD_
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Sets default observability if missing
//   - Overrides observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Seed.RequireAuth && mainConfig.Auth.SecretKey == "" {
		return nil, fmt.Errorf("seed.require_auth is set but auth.secret_key is empty")
	}

	// Observability is optional; nil means nothing was configured.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed and environment always follows primary.env,
	// so telemetry is consistent regardless of what was set.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
