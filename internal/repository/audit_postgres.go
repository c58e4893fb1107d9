package repository

import (
	"context"
	"fmt"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ AuditStorage = &AuditPostgres{}

// AuditPostgres stores audit records in the audit_records table
type AuditPostgres struct {
	db *pgxpool.Pool
}

func NewAuditPostgres(db *pgxpool.Pool) *AuditPostgres {
	return &AuditPostgres{db: db}
}

const insertAuditRecord = `
INSERT INTO audit_records (category, key, payload)
VALUES ($1, $2, $3::json)
ON CONFLICT (category, key) DO NOTHING`

func (r *AuditPostgres) Write(ctx context.Context, category, key string, payload []byte) error {
	tag, err := r.db.Exec(ctx, insertAuditRecord, category, key, string(payload))
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", entity.ErrAuditRecordExists, category, key)
	}
	return nil
}
