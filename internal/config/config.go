package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the mediagate server. It is built once at
// startup and never mutated.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Providers ProvidersConfig
	Retry     RetryConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	JobStatusTTL time.Duration
}

// StorageConfig points at the S3-compatible bucket media is rehosted into.
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	PublicBaseURL   string
	PresignExpiry   time.Duration
}

type ProvidersConfig struct {
	Timeout    time.Duration
	Fal        ProviderConfig
	Runway     ProviderConfig
	Ideogram   ProviderConfig
	Stability  ProviderConfig
	Cartesia   ProviderConfig
	Sieve      ProviderConfig
	Hyperbolic ProviderConfig
}

// ProviderConfig is the credential and endpoint of one upstream.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Version string
	Model   string
}

// Enabled reports whether credentials were supplied.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("MEDIAGATE_PORT", 8080),
			Env:  envString("MEDIAGATE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			JobStatusTTL: envDuration("JOB_STATUS_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Endpoint:        os.Getenv("STORAGE_ENDPOINT"),
			Region:          envString("STORAGE_REGION", "auto"),
			Bucket:          os.Getenv("STORAGE_BUCKET"),
			AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			UseSSL:          envBool("STORAGE_USE_SSL", true),
			PublicBaseURL:   os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			PresignExpiry:   envDuration("STORAGE_PRESIGN_EXPIRY", time.Hour),
		},
		Providers: ProvidersConfig{
			Timeout: envDurationSecs("PROVIDER_TIMEOUT_SECS", 300*time.Second),
			Fal: ProviderConfig{
				APIKey:  os.Getenv("FAL_KEY"),
				BaseURL: envString("FAL_BASE_URL", "https://fal.run"),
			},
			Runway: ProviderConfig{
				APIKey:  os.Getenv("RUNWAY_KEY"),
				BaseURL: envString("RUNWAY_BASE_URL", "https://api.dev.runwayml.com"),
				Version: envString("RUNWAY_VERSION", "2024-11-06"),
			},
			Ideogram: ProviderConfig{
				APIKey:  os.Getenv("IDEOGRAM_KEY"),
				BaseURL: envString("IDEOGRAM_BASE_URL", "https://api.ideogram.ai"),
			},
			Stability: ProviderConfig{
				APIKey:  os.Getenv("STABILITY_KEY"),
				BaseURL: envString("STABILITY_BASE_URL", "https://api.stability.ai"),
			},
			Cartesia: ProviderConfig{
				APIKey:  os.Getenv("CARTESIA_KEY"),
				BaseURL: envString("CARTESIA_BASE_URL", "https://api.cartesia.ai"),
				Version: envString("CARTESIA_VERSION", "2024-06-10"),
			},
			Sieve: ProviderConfig{
				APIKey:  os.Getenv("SIEVE_KEY"),
				BaseURL: envString("SIEVE_BASE_URL", "https://mango.sievedata.com"),
			},
			Hyperbolic: ProviderConfig{
				APIKey:  os.Getenv("HYPERBOLIC_KEY"),
				BaseURL: envString("HYPERBOLIC_BASE_URL", "https://api.hyperbolic.xyz/v1"),
				Model:   envString("HYPERBOLIC_MODEL", "Qwen/Qwen2.5-Coder-32B-Instruct"),
			},
		},
		Retry: RetryConfig{
			Attempts: envInt("RETRY_ATTEMPTS", 3),
			Delay:    envDuration("RETRY_DELAY", time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Storage.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if strings.Contains(c.Storage.Endpoint, "://") {
		return fmt.Errorf("STORAGE_ENDPOINT must be a host[:port] without scheme, got %q", c.Storage.Endpoint)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required")
	}
	if c.Storage.PublicBaseURL == "" {
		return fmt.Errorf("STORAGE_PUBLIC_BASE_URL is required")
	}
	if !strings.HasPrefix(c.Storage.PublicBaseURL, "http://") && !strings.HasPrefix(c.Storage.PublicBaseURL, "https://") {
		return fmt.Errorf("STORAGE_PUBLIC_BASE_URL must start with http:// or https://, got %q", c.Storage.PublicBaseURL)
	}
	if !strings.HasSuffix(c.Storage.PublicBaseURL, "/") {
		c.Storage.PublicBaseURL += "/"
	}

	if c.Providers.Fal.APIKey == "" {
		return fmt.Errorf("FAL_KEY is required")
	}

	if c.Retry.Attempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.Retry.Attempts)
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("RETRY_DELAY must not be negative, got %s", c.Retry.Delay)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
