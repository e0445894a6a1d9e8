package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Bank source kinds.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceObject   = "object"
)

// Bank loading strategies.
const (
	StrategyCached = "cached"
	StrategyFresh  = "fresh"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Bank    BankConfig    `yaml:"bank"`
	Match   MatchConfig   `yaml:"match"`
	Metrics MetricsConfig `yaml:"metrics"`
	Auth    AuthConfig    `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CORSConfig lists the origins echoed back to browsers. Empty means "*".
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// BankConfig selects where the question bank comes from and how long it lives.
type BankConfig struct {
	Source   string         `yaml:"source"`
	Path     string         `yaml:"path"`
	Strategy string         `yaml:"strategy"`
	CacheTTL time.Duration  `yaml:"cacheTtl"`
	Preload  bool           `yaml:"preload"`
	Postgres PostgresConfig `yaml:"postgres"`
	Object   ObjectConfig   `yaml:"object"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectConfig points at a bank document in S3-compatible storage.
type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Key       string `yaml:"key"`
}

// ValkeyConfig enables a bank cache shared between replicas.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// MatchConfig tunes query diagnostics.
type MatchConfig struct {
	LogNearMiss bool `yaml:"logNearMiss"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AuthConfig guards the query endpoints when enabled.
type AuthConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Secret       string   `yaml:"secret"`
	APIKeyHashes []string `yaml:"apiKeyHashes"`
}

// Load reads configuration from a YAML file, an optional .env file and
// environment variables, in that order of precedence (last wins).
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(os.Getenv("DOTENV_PATH")); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// loadDotEnv populates unset variables from path, or ./.env when path is
// empty. A missing default file is not an error.
func loadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("BANK_SOURCE"); v != "" {
		cfg.Bank.Source = strings.ToLower(v)
	}
	if v := os.Getenv("BANK_PATH"); v != "" {
		cfg.Bank.Path = v
	}
	if v := os.Getenv("BANK_STRATEGY"); v != "" {
		cfg.Bank.Strategy = strings.ToLower(v)
	}
	if v := os.Getenv("BANK_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Bank.CacheTTL = parsed
		}
	}
	if v := os.Getenv("BANK_PRELOAD"); v != "" {
		cfg.Bank.Preload = parseBool(v)
	}
	if v := os.Getenv("BANK_POSTGRES_DSN"); v != "" {
		cfg.Bank.Postgres.DSN = v
	}
	if v := os.Getenv("BANK_POSTGRES_TABLE"); v != "" {
		cfg.Bank.Postgres.Table = v
	}
	if v := os.Getenv("BANK_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Bank.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("BANK_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Bank.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("BANK_OBJECT_ENDPOINT"); v != "" {
		cfg.Bank.Object.Endpoint = v
	}
	if v := os.Getenv("BANK_OBJECT_ACCESS_KEY"); v != "" {
		cfg.Bank.Object.AccessKey = v
	}
	if v := os.Getenv("BANK_OBJECT_SECRET_KEY"); v != "" {
		cfg.Bank.Object.SecretKey = v
	}
	if v := os.Getenv("BANK_OBJECT_BUCKET"); v != "" {
		cfg.Bank.Object.Bucket = v
	}
	if v := os.Getenv("BANK_OBJECT_REGION"); v != "" {
		cfg.Bank.Object.Region = v
	}
	if v := os.Getenv("BANK_OBJECT_KEY"); v != "" {
		cfg.Bank.Object.Key = v
	}
	if v := os.Getenv("BANK_VALKEY_ENABLED"); v != "" {
		cfg.Bank.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("BANK_VALKEY_ADDR"); v != "" {
		cfg.Bank.Valkey.Addr = v
	}
	if v := os.Getenv("BANK_VALKEY_PREFIX"); v != "" {
		cfg.Bank.Valkey.Prefix = v
	}
	if v := os.Getenv("MATCH_LOG_NEAR_MISS"); v != "" {
		cfg.Match.LogNearMiss = parseBool(v)
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
	if v := os.Getenv("AUTH_ENABLED"); v != "" {
		cfg.Auth.Enabled = parseBool(v)
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_API_KEY_HASHES"); v != "" {
		cfg.Auth.APIKeyHashes = splitList(v)
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Bank: BankConfig{
			Source:   SourceFile,
			Path:     "question_bank.json",
			Strategy: StrategyCached,
			Postgres: PostgresConfig{
				Table:    "question_bank",
				MaxConns: 4,
			},
			Object: ObjectConfig{
				Key: "question_bank.json",
			},
			Valkey: ValkeyConfig{
				Prefix: "questionbank",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.Bank.Source {
	case SourceFile:
		if strings.TrimSpace(c.Bank.Path) == "" {
			return errors.New("bank.path cannot be empty for the file source")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Bank.Postgres.DSN) == "" {
			return errors.New("bank.postgres.dsn cannot be empty for the postgres source")
		}
		if strings.TrimSpace(c.Bank.Postgres.Table) == "" {
			return errors.New("bank.postgres.table cannot be empty")
		}
	case SourceObject:
		if strings.TrimSpace(c.Bank.Object.Endpoint) == "" || strings.TrimSpace(c.Bank.Object.Bucket) == "" {
			return errors.New("bank.object.endpoint and bank.object.bucket are required for the object source")
		}
		if strings.TrimSpace(c.Bank.Object.Key) == "" {
			return errors.New("bank.object.key cannot be empty")
		}
	default:
		return fmt.Errorf("bank.source %q is not supported", c.Bank.Source)
	}
	switch c.Bank.Strategy {
	case StrategyCached, StrategyFresh:
	default:
		return fmt.Errorf("bank.strategy %q is not supported", c.Bank.Strategy)
	}
	if c.Bank.CacheTTL < 0 {
		return errors.New("bank.cacheTtl cannot be negative")
	}
	if c.Bank.Valkey.Enabled && strings.TrimSpace(c.Bank.Valkey.Addr) == "" {
		return errors.New("bank.valkey.addr cannot be empty when valkey cache is enabled")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.Secret) == "" && len(c.Auth.APIKeyHashes) == 0 {
		return errors.New("auth requires a secret or at least one api key hash when enabled")
	}
	return nil
}
