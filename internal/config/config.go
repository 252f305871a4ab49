package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds all configuration for the campaign analytics service.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Geo       GeoConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver       string
	EnsureSchema bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int

	ConnectTimeout    time.Duration
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MongoConfig configures the document store.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// GeoConfig configures reverse geocoding of location events.
type GeoConfig struct {
	Enabled  bool
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration

	// Circuit breaker
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

type AuthConfig struct {
	Enabled   bool
	MasterKey string
	SkipPaths []string
}

type RateLimitConfig struct {
	Enabled     bool
	IngestRPS   float64
	IngestBurst int
	QueryRPS    float64
	QueryBurst  int
}

// CORSConfig configures cross-origin access for browser dashboards.
type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("CAMPAIGN_ANALYTICS_HTTP_ADDR", ":8080"),
			Env:             getEnv("CAMPAIGN_ANALYTICS_ENV", "development"),
			ShutdownTimeout: getDurationEnv("CAMPAIGN_ANALYTICS_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Driver:       strings.ToLower(getEnv("CAMPAIGN_ANALYTICS_STORE", StoreMemory)),
			EnsureSchema: getBoolEnv("CAMPAIGN_ANALYTICS_ENSURE_SCHEMA", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("CAMPAIGN_ANALYTICS_DB_HOST", "localhost"),
			Port:     getIntEnv("CAMPAIGN_ANALYTICS_DB_PORT", 5432),
			User:     getEnv("CAMPAIGN_ANALYTICS_DB_USER", "analytics"),
			Password: getEnv("CAMPAIGN_ANALYTICS_DB_PASSWORD", ""),
			DBName:   getEnv("CAMPAIGN_ANALYTICS_DB_NAME", "analytics"),
			SSLMode:  getEnv("CAMPAIGN_ANALYTICS_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("CAMPAIGN_ANALYTICS_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("CAMPAIGN_ANALYTICS_DB_MIN_CONNS", 2),

			ConnectTimeout:    getDurationEnv("CAMPAIGN_ANALYTICS_DB_CONNECT_TIMEOUT", 5*time.Second),
			MaxConnLifetime:   getDurationEnv("CAMPAIGN_ANALYTICS_DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:   getDurationEnv("CAMPAIGN_ANALYTICS_DB_MAX_CONN_IDLE", 5*time.Minute),
			HealthCheckPeriod: getDurationEnv("CAMPAIGN_ANALYTICS_DB_HEALTH_CHECK_PERIOD", 30*time.Second),
		},
		Mongo: MongoConfig{
			URI:            getEnv("CAMPAIGN_ANALYTICS_MONGO_URI", ""),
			Database:       getEnv("CAMPAIGN_ANALYTICS_MONGO_DB", "analytics"),
			ConnectTimeout: getDurationEnv("CAMPAIGN_ANALYTICS_MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("CAMPAIGN_ANALYTICS_REDIS_ENABLED", false),
			Addr:     getEnv("CAMPAIGN_ANALYTICS_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CAMPAIGN_ANALYTICS_REDIS_PASSWORD", ""),
			DB:       getIntEnv("CAMPAIGN_ANALYTICS_REDIS_DB", 0),
		},
		Geo: GeoConfig{
			Enabled:             getBoolEnv("CAMPAIGN_ANALYTICS_GEO_ENABLED", true),
			APIKey:              getEnv("CAMPAIGN_ANALYTICS_GEO_API_KEY", ""),
			BaseURL:             getEnv("CAMPAIGN_ANALYTICS_GEO_BASE_URL", ""),
			Timeout:             getDurationEnv("CAMPAIGN_ANALYTICS_GEO_TIMEOUT", 5*time.Second),
			CacheTTL:            getDurationEnv("CAMPAIGN_ANALYTICS_GEO_CACHE_TTL", 24*time.Hour),
			BreakerMinRequests:  uint32(getIntEnv("CAMPAIGN_ANALYTICS_GEO_BREAKER_MIN_REQUESTS", 10)),
			BreakerFailureRatio: getFloatEnv("CAMPAIGN_ANALYTICS_GEO_BREAKER_FAILURE_RATIO", 0.6),
			BreakerOpenTimeout:  getDurationEnv("CAMPAIGN_ANALYTICS_GEO_BREAKER_OPEN_TIMEOUT", time.Minute),
		},
		Auth: AuthConfig{
			Enabled:   getBoolEnv("CAMPAIGN_ANALYTICS_AUTH_ENABLED", false),
			MasterKey: getEnv("CAMPAIGN_ANALYTICS_API_KEY_MASTER", ""),
			SkipPaths: getSliceEnv("CAMPAIGN_ANALYTICS_AUTH_SKIP_PATHS", []string{"/health", "/metrics"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getBoolEnv("CAMPAIGN_ANALYTICS_RATE_LIMIT_ENABLED", true),
			IngestRPS:   getFloatEnv("CAMPAIGN_ANALYTICS_RATE_LIMIT_INGEST_RPS", 500),
			IngestBurst: getIntEnv("CAMPAIGN_ANALYTICS_RATE_LIMIT_INGEST_BURST", 100),
			QueryRPS:    getFloatEnv("CAMPAIGN_ANALYTICS_RATE_LIMIT_QUERY_RPS", 50),
			QueryBurst:  getIntEnv("CAMPAIGN_ANALYTICS_RATE_LIMIT_QUERY_BURST", 20),
		},
		CORS: CORSConfig{
			AllowedOrigins: getSliceEnv("CAMPAIGN_ANALYTICS_CORS_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level:  getEnv("CAMPAIGN_ANALYTICS_LOG_LEVEL", "info"),
			Format: getEnv("CAMPAIGN_ANALYTICS_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled:   getBoolEnv("CAMPAIGN_ANALYTICS_METRICS_ENABLED", true),
			Path:      getEnv("CAMPAIGN_ANALYTICS_METRICS_PATH", "/metrics"),
			Namespace: getEnv("CAMPAIGN_ANALYTICS_METRICS_NAMESPACE", "campaign_analytics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("CAMPAIGN_ANALYTICS_DB_HOST and CAMPAIGN_ANALYTICS_DB_NAME are required for the postgres store")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("CAMPAIGN_ANALYTICS_DB_MIN_CONNS (%d) exceeds CAMPAIGN_ANALYTICS_DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
		}
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("CAMPAIGN_ANALYTICS_MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown store driver %q (supported: memory, postgres, mongo)", c.Store.Driver)
	}
	if c.Auth.Enabled && c.Auth.MasterKey == "" {
		return fmt.Errorf("CAMPAIGN_ANALYTICS_API_KEY_MASTER is required when auth is enabled")
	}
	if c.Geo.Enabled && c.Geo.APIKey == "" {
		return fmt.Errorf("CAMPAIGN_ANALYTICS_GEO_API_KEY is required when geocoding is enabled")
	}
	if c.Geo.Timeout <= 0 {
		return fmt.Errorf("CAMPAIGN_ANALYTICS_GEO_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
