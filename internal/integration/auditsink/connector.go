package auditsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/entity"
	pkghttp "github.com/futig/structure-engine/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Envelope is the body posted for every audit record
type Envelope struct {
	Category string          `json:"category"`
	Key      string          `json:"key"`
	Record   json.RawMessage `json:"record"`
}

// Connector forwards audit records to a remote collector.
// The collector answers 409 when the key already exists.
type Connector struct {
	config    config.AuditSinkConfig
	connector *pkghttp.Connector
}

func NewConnector(
	cfg config.AuditSinkConfig,
	logger *zap.Logger,
) *Connector {
	logger.Info("audit sink configured",
		zap.String("url", cfg.Url+cfg.Endpoint),
		zap.Uint("attempts", cfg.Retry.Attempts),
	)
	return &Connector{
		connector: newHTTPConnector(cfg.HTTPClientConfig),
		config:    cfg,
	}
}

func (c *Connector) Write(ctx context.Context, category, key string, payload []byte) error {
	ctx, cancel := c.config.Retry.WithTimeout(ctx)
	defer cancel()

	envelope := &Envelope{Category: category, Key: key, Record: payload}

	opts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(pkghttp.IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "retrying audit record delivery",
				zap.Uint("attempt", n+1),
				zap.String("key", key),
				zap.Error(err),
			)
		}),
	)

	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, envelope, nil,
			pkghttp.WithHeader("Idempotency-Key", category+"/"+key),
		)
	}, opts...)
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusConflict {
			return fmt.Errorf("%w: %s/%s", entity.ErrAuditRecordExists, category, key)
		}
		return fmt.Errorf("deliver audit record: %w", err)
	}

	ctxzap.Debug(ctx, "audit record delivered", zap.String("key", key))
	return nil
}
