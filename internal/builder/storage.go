package builder

import (
	"context"
	"fmt"

	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/integration/auditsink"
	"github.com/futig/structure-engine/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backends holds the shared clients opened for the configured storages
type backends struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func setupRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}

func setupStructureRepository(cfg *config.Config, b *backends, logger *zap.Logger) (repository.StructureRepository, error) {
	var repo repository.StructureRepository
	switch cfg.StructureCfg.Backend {
	case config.BackendFile:
		repo = repository.NewStructureFile(cfg.StructureCfg.Dir)
	case config.BackendPostgres:
		repo = repository.NewStructurePostgres(b.db)
	case config.BackendRedis:
		repo = repository.NewStructureRedis(b.redis)
	default:
		return nil, fmt.Errorf("%w: structure backend %q", entity.ErrUnsupportedBackend, cfg.StructureCfg.Backend)
	}

	if cfg.StructureCfg.CacheTTL > 0 {
		repo = repository.NewCachedStructureRepository(repo, cfg.StructureCfg.CacheTTL)
	}

	logger.Info("structure repository initialized",
		zap.String("backend", cfg.StructureCfg.Backend),
		zap.Duration("cache_ttl", cfg.StructureCfg.CacheTTL),
	)
	return repo, nil
}

// setupAuditStorage returns nil when audit records are disabled
func setupAuditStorage(ctx context.Context, cfg *config.Config, b *backends, logger *zap.Logger) (repository.AuditStorage, error) {
	var storage repository.AuditStorage
	switch cfg.AuditCfg.Backend {
	case config.BackendNone:
		logger.Warn("audit records are disabled")
		return nil, nil
	case config.BackendFile:
		storage = repository.NewAuditFileStorage(cfg.AuditCfg.Dir)
	case config.BackendPostgres:
		storage = repository.NewAuditPostgres(b.db)
	case config.BackendRedis:
		storage = repository.NewAuditRedis(b.redis, cfg.AuditCfg.RedisTTL)
	case config.BackendMinio:
		client, err := minio.New(cfg.MinioCfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioCfg.AccessKey, cfg.MinioCfg.SecretKey, ""),
			Secure: cfg.MinioCfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		minioStorage := repository.NewAuditMinio(client, cfg.MinioCfg.Bucket, &cfg.MinioCfg.Retry)
		if err := minioStorage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		storage = minioStorage
	case config.BackendHTTP:
		storage = auditsink.NewConnector(cfg.AuditSinkCfg, logger)
	default:
		return nil, fmt.Errorf("%w: audit backend %q", entity.ErrUnsupportedBackend, cfg.AuditCfg.Backend)
	}

	logger.Info("audit storage initialized",
		zap.String("backend", cfg.AuditCfg.Backend),
		zap.String("category", cfg.AuditCfg.Category),
	)
	return storage, nil
}
