package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/structure-engine/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendNone     = "none"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMinio    = "minio"
	BackendHTTP     = "http"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Database configuration, required only by postgres backends
	DatabaseURL         string        `env:"DATABASE_URL"`
	MigrationsSource    string        `env:"MIGRATIONS_SOURCE" envDefault:"file://internal/repository/migrations"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StructureCfg StructureConfig `envPrefix:"STRUCTURE_"`
	AuditCfg     AuditConfig     `envPrefix:"AUDIT_"`
	AuditSinkCfg AuditSinkConfig `envPrefix:"AUDIT_SINK_"`
	RedisCfg     RedisConfig     `envPrefix:"REDIS_"`
	MinioCfg     MinioConfig     `envPrefix:"MINIO_"`
	EngineCfg    EngineConfig    `envPrefix:"ENGINE_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// StructureConfig selects where reference structures live
type StructureConfig struct {
	Backend  string        `env:"BACKEND" envDefault:"file"`
	Dir      string        `env:"DIR" envDefault:"data/structures"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"` // 0 disables the cache
}

// AuditConfig selects where audit records are written
type AuditConfig struct {
	Backend  string        `env:"BACKEND" envDefault:"file"`
	Category string        `env:"CATEGORY" envDefault:"diff_logs"`
	Dir      string        `env:"DIR" envDefault:"data/audit"`
	RedisTTL time.Duration `env:"REDIS_TTL" envDefault:"0s"`
}

type AuditSinkConfig struct {
	HTTPClientConfig
	Endpoint string               `env:"ENDPOINT" envDefault:"/api/v1/audit-records"`
	Retry    pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type MinioConfig struct {
	Endpoint  string               `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string               `env:"ACCESS_KEY"`
	SecretKey string               `env:"SECRET_KEY"`
	Bucket    string               `env:"BUCKET" envDefault:"structure-audit"`
	UseSSL    bool                 `env:"USE_SSL" envDefault:"false"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"10s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// EngineConfig bounds the work done per reconciliation call
type EngineConfig struct {
	MaxCandidateBytes  int64 `env:"MAX_CANDIDATE_BYTES" envDefault:"1048576"` // 1 MiB
	NormalizeByDefault bool  `env:"NORMALIZE_BY_DEFAULT" envDefault:"true"`
}

// LoadConfig reads the -env flag and loads the matching .env file
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return LoadConfigFor(*envFlag)
}

// LoadConfigFor loads configuration for the given environment name
func LoadConfigFor(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// NeedsDatabase reports whether any configured backend uses postgres
func (c *Config) NeedsDatabase() bool {
	return c.StructureCfg.Backend == BackendPostgres || c.AuditCfg.Backend == BackendPostgres
}

// NeedsRedis reports whether any configured backend uses redis
func (c *Config) NeedsRedis() bool {
	return c.StructureCfg.Backend == BackendRedis || c.AuditCfg.Backend == BackendRedis
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StructureCfg.Backend {
	case BackendFile, BackendPostgres, BackendRedis:
	default:
		errors = append(errors, fmt.Sprintf("STRUCTURE_BACKEND must be one of file, postgres, redis, got %q", cfg.StructureCfg.Backend))
	}

	switch cfg.AuditCfg.Backend {
	case BackendNone, BackendFile, BackendPostgres, BackendRedis, BackendMinio, BackendHTTP:
	default:
		errors = append(errors, fmt.Sprintf("AUDIT_BACKEND must be one of none, file, postgres, redis, minio, http, got %q", cfg.AuditCfg.Backend))
	}

	if cfg.AuditCfg.Category == "" || strings.ContainsAny(cfg.AuditCfg.Category, `/\`) {
		errors = append(errors, fmt.Sprintf("AUDIT_CATEGORY must be a non-empty name without path separators, got %q", cfg.AuditCfg.Category))
	}

	if cfg.AuditCfg.Backend == BackendHTTP && cfg.AuditSinkCfg.Url == "" {
		errors = append(errors, "AUDIT_SINK_SERVICE_URL is required when AUDIT_BACKEND=http")
	}

	if cfg.AuditCfg.Backend == BackendMinio && (cfg.MinioCfg.AccessKey == "" || cfg.MinioCfg.SecretKey == "") {
		errors = append(errors, "MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when AUDIT_BACKEND=minio")
	}

	if cfg.EngineCfg.MaxCandidateBytes < 0 {
		errors = append(errors, fmt.Sprintf("ENGINE_MAX_CANDIDATE_BYTES must not be negative, got %d", cfg.EngineCfg.MaxCandidateBytes))
	}

	if cfg.StructureCfg.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("STRUCTURE_CACHE_TTL must not be negative, got %s", cfg.StructureCfg.CacheTTL))
	}

	// Validate Database configuration
	if cfg.NeedsDatabase() {
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required by the postgres backend")
		}

		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}

		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
