package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultConfig parses the struct tags against an empty environment
func defaultConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{}
	require.NoError(t, env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}))
	return cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)

	require.NoError(t, validateConfig(cfg))
	assert.Equal(t, BackendFile, cfg.StructureCfg.Backend)
	assert.Equal(t, 5*time.Minute, cfg.StructureCfg.CacheTTL)
	assert.Equal(t, int64(1<<20), cfg.EngineCfg.MaxCandidateBytes)
	assert.True(t, cfg.EngineCfg.NormalizeByDefault)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.NeedsDatabase())
	assert.False(t, cfg.NeedsRedis())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:    "unknown structure backend",
			mutate:  func(c *Config) { c.StructureCfg.Backend = "s3" },
			wantErr: []string{"STRUCTURE_BACKEND"},
		},
		{
			name:    "unknown audit backend",
			mutate:  func(c *Config) { c.AuditCfg.Backend = "kafka" },
			wantErr: []string{"AUDIT_BACKEND"},
		},
		{
			name:    "category with separator",
			mutate:  func(c *Config) { c.AuditCfg.Category = "a/b" },
			wantErr: []string{"AUDIT_CATEGORY"},
		},
		{
			name:    "http sink without url",
			mutate:  func(c *Config) { c.AuditCfg.Backend = BackendHTTP },
			wantErr: []string{"AUDIT_SINK_SERVICE_URL"},
		},
		{
			name:    "minio without credentials",
			mutate:  func(c *Config) { c.AuditCfg.Backend = BackendMinio },
			wantErr: []string{"MINIO_ACCESS_KEY"},
		},
		{
			name:    "postgres without database url",
			mutate:  func(c *Config) { c.StructureCfg.Backend = BackendPostgres },
			wantErr: []string{"DATABASE_URL"},
		},
		{
			name: "all problems reported together",
			mutate: func(c *Config) {
				c.EngineCfg.MaxCandidateBytes = -1
				c.StructureCfg.CacheTTL = -time.Second
				c.AuditCfg.Backend = BackendPostgres
				c.DBMaxConns = 0
			},
			wantErr: []string{
				"ENGINE_MAX_CANDIDATE_BYTES",
				"STRUCTURE_CACHE_TTL",
				"DATABASE_URL",
				"DB_MAX_CONNS",
				"DB_MIN_CONNS",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestNeedsBackends(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.AuditCfg.Backend = BackendPostgres
	cfg.StructureCfg.Backend = BackendRedis

	assert.True(t, cfg.NeedsDatabase())
	assert.True(t, cfg.NeedsRedis())
}

func TestLoadConfigFor(t *testing.T) {
	t.Setenv("STRUCTURE_BACKEND", BackendRedis)
	t.Setenv("AUDIT_BACKEND", BackendFile)
	t.Setenv("AUDIT_DIR", t.TempDir())
	t.Setenv("ENGINE_MAX_CANDIDATE_BYTES", "2048")

	cfg, err := LoadConfigFor("missing-env-file")
	require.NoError(t, err)
	assert.Equal(t, "missing-env-file", cfg.Environment)
	assert.Equal(t, BackendRedis, cfg.StructureCfg.Backend)
	assert.Equal(t, int64(2048), cfg.EngineCfg.MaxCandidateBytes)
}

func TestLoadConfigFor_Invalid(t *testing.T) {
	t.Setenv("STRUCTURE_BACKEND", "nowhere")

	_, err := LoadConfigFor("missing-env-file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
