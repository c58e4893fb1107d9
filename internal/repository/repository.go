package repository

import (
	"context"

	"github.com/futig/structure-engine/internal/entity"
)

// StructureRepository persists reference structures together with their history
type StructureRepository interface {
	Get(ctx context.Context, id string) (*entity.Structure, error)
	// Save creates or replaces a structure. A replaced version is moved into
	// the history, which keeps at most entity.MaxStructureHistory entries.
	Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error)
	// History lists previous versions, newest first
	History(ctx context.Context, id string) ([]entity.StructureVersion, error)
}

// AuditStorage is a write-once key/value sink for audit records
type AuditStorage interface {
	Write(ctx context.Context, category, key string, payload []byte) error
}
