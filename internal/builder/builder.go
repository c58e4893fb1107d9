package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/structure-engine/internal/api"
	reconcileapi "github.com/futig/structure-engine/internal/api/reconcile"
	structureapi "github.com/futig/structure-engine/internal/api/structure"
	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/pkg/formatter"
	"github.com/futig/structure-engine/internal/pkg/validator"
	"github.com/futig/structure-engine/internal/usecase/normalize"
	"github.com/futig/structure-engine/internal/usecase/reconcile"
	"github.com/futig/structure-engine/internal/usecase/structure"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	app := &App{logger: logger, shutdownTimeout: cfg.ShutdownTimeout}
	b := &backends{}

	if cfg.NeedsDatabase() {
		b.db, err = setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		app.db = b.db
	}

	if cfg.NeedsRedis() {
		b.redis, err = setupRedis(ctx, cfg.RedisCfg, logger)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("setup redis: %w", err)
		}
		app.redis = b.redis
	}

	structureRepo, err := setupStructureRepository(cfg, b, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("setup structure repository: %w", err)
	}

	auditStorage, err := setupAuditStorage(ctx, cfg, b, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("setup audit storage: %w", err)
	}

	engineValidator := validator.NewValidator(cfg.EngineCfg)

	// a nil interface value keeps audit records disabled
	var storage reconcile.Storage
	if auditStorage != nil {
		storage = auditStorage
	}

	reconcileUC := reconcile.NewUsecase(reconcile.Config{
		Codec:      document.NewJSONCodec(),
		Storage:    storage,
		Normalizer: normalize.NewNormalizer(),
		Category:   cfg.AuditCfg.Category,
	})

	structureUC := structure.NewUsecase(
		structureRepo,
		reconcileUC,
		formatter.NewFactory(),
		engineValidator,
	)
	logger.Info("Use cases initialized")

	reconcileHandler := reconcileapi.NewHandler(reconcileUC, cfg.EngineCfg, engineValidator)
	structureHandler := structureapi.NewHandler(structureUC, cfg.EngineCfg)

	router := api.SetupRouter(reconcileHandler, structureHandler, cfg.CORSOrigins, logger)
	logger.Info("HTTP router configured")

	app.server = &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("structure_backend", cfg.StructureCfg.Backend),
		zap.String("audit_backend", cfg.AuditCfg.Backend),
	)

	return app, nil
}
