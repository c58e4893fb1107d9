package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/diff"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxKeyAttempts bounds how often a colliding audit key is regenerated
const maxKeyAttempts = 2

// GenerateDiff returns a unified diff of before and after
func GenerateDiff(before, after string) string {
	return diff.Unified(before, after)
}

// SaveAuditRecord writes one immutable record of a repair or merge and
// returns its key. A key that is already taken is regenerated once.
// Storage failures come back as *entity.AuditWriteError.
func (uc *Usecase) SaveAuditRecord(ctx context.Context, original string, repaired, reference any) (string, error) {
	if uc.storage == nil {
		return "", nil
	}

	now := uc.now()

	after, err := uc.codec.Encode(repaired)
	if err != nil {
		return "", fmt.Errorf("encode repaired document: %w", err)
	}

	stats := diff.LineStats(original, string(after))
	record := entity.AuditRecord{
		Timestamp: now,
		Original:  original,
		Repaired:  repaired,
		Reference: reference,
		Diff:      GenerateDiff(original, string(after)),
		Stats:     toDiffStats(stats),
	}

	var key string
	for attempt := 1; ; attempt++ {
		key = newRecordKey(now)
		record.ID = key

		payload, err := encodeRecord(record)
		if err != nil {
			return "", fmt.Errorf("encode audit record: %w", err)
		}

		err = uc.storage.Write(ctx, uc.category, key, payload)
		if err == nil {
			break
		}
		if errors.Is(err, entity.ErrAuditRecordExists) && attempt < maxKeyAttempts {
			ctxzap.Warn(ctx, "audit key already taken, retrying with a new key", zap.String("audit_id", key))
			continue
		}
		return "", &entity.AuditWriteError{Category: uc.category, Key: key, Err: err}
	}

	ctxzap.Debug(ctx, "audit record saved",
		zap.String("audit_id", key),
		zap.Int("lines_added", stats.Added),
		zap.Int("lines_removed", stats.Removed),
	)

	return key, nil
}

// audit logs and drops storage failures so they never fail the reconciliation
func (uc *Usecase) audit(ctx context.Context, original string, repaired, reference any) string {
	id, err := uc.SaveAuditRecord(ctx, original, repaired, reference)
	if err != nil {
		ctxzap.Error(ctx, "failed to save audit record", zap.Error(err))
		return ""
	}
	return id
}
