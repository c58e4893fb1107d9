package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/redis/go-redis/v9"
)

var _ AuditStorage = &AuditRedis{}

const auditPrefix = "audit:"

// AuditRedis keeps audit records as plain string keys audit:<category>:<key>.
// A zero ttl keeps records forever.
type AuditRedis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAuditRedis(client *redis.Client, ttl time.Duration) *AuditRedis {
	return &AuditRedis{client: client, ttl: ttl}
}

func (s *AuditRedis) Write(ctx context.Context, category, key string, payload []byte) error {
	ok, err := s.client.SetNX(ctx, auditKey(category, key), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store audit record: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s/%s", entity.ErrAuditRecordExists, category, key)
	}
	return nil
}

func auditKey(category, key string) string {
	return auditPrefix + category + ":" + key
}
