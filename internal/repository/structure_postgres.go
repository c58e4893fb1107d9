package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ StructureRepository = &StructurePostgres{}

// StructurePostgres implements StructureRepository using PostgreSQL
type StructurePostgres struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewStructurePostgres(db *pgxpool.Pool) *StructurePostgres {
	return &StructurePostgres{db: db, now: time.Now}
}

const (
	selectStructure = `
SELECT id, project, content::text, is_final, created_at, updated_at
FROM structures
WHERE id = $1`

	selectStructureForUpdate = selectStructure + `
FOR UPDATE`

	upsertStructure = `
INSERT INTO structures (id, project, content, is_final, created_at, updated_at)
VALUES ($1, $2, $3::json, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET project = EXCLUDED.project,
    content = EXCLUDED.content,
    is_final = EXCLUDED.is_final,
    updated_at = EXCLUDED.updated_at`

	insertStructureVersion = `
INSERT INTO structure_versions (structure_id, version, content, is_final, saved_at)
VALUES ($1, COALESCE((SELECT MAX(version) FROM structure_versions WHERE structure_id = $1), 0) + 1, $2::json, $3, $4)`

	trimStructureVersions = `
DELETE FROM structure_versions
WHERE structure_id = $1
  AND version NOT IN (
    SELECT version FROM structure_versions
    WHERE structure_id = $1
    ORDER BY version DESC
    LIMIT $2
  )`

	selectStructureVersions = `
SELECT structure_id, version, content::text, is_final, saved_at
FROM structure_versions
WHERE structure_id = $1
ORDER BY version DESC`
)

func (r *StructurePostgres) Get(ctx context.Context, id string) (*entity.Structure, error) {
	stored, err := scanStructure(r.db.QueryRow(ctx, selectStructure, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrStructureNotFound
		}
		return nil, fmt.Errorf("get structure: %w", err)
	}
	return toEntityStructure(stored)
}

func (r *StructurePostgres) Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := r.now().UTC()

	prev, err := scanStructure(tx.QueryRow(ctx, selectStructureForUpdate, structure.ID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lock structure: %w", err)
	}
	if err != nil {
		prev = nil
	}

	if prev != nil {
		if _, err := tx.Exec(ctx, insertStructureVersion, prev.ID, string(prev.Content), prev.IsFinal, now); err != nil {
			return nil, fmt.Errorf("insert structure version: %w", err)
		}
		if _, err := tx.Exec(ctx, trimStructureVersions, prev.ID, entity.MaxStructureHistory); err != nil {
			return nil, fmt.Errorf("trim structure history: %w", err)
		}
	}

	structure = prepareSave(structure, prev, now)
	stored, err := toStoredStructure(&structure)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, upsertStructure,
		stored.ID, stored.Project, string(stored.Content), stored.IsFinal, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert structure: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &structure, nil
}

func (r *StructurePostgres) History(ctx context.Context, id string) ([]entity.StructureVersion, error) {
	rows, err := r.db.Query(ctx, selectStructureVersions, id)
	if err != nil {
		return nil, fmt.Errorf("list structure versions: %w", err)
	}
	defer rows.Close()

	versions := make([]entity.StructureVersion, 0)
	for rows.Next() {
		var (
			v       storedVersion
			content string
		)
		if err := rows.Scan(&v.StructureID, &v.Version, &content, &v.IsFinal, &v.SavedAt); err != nil {
			return nil, fmt.Errorf("scan structure version: %w", err)
		}
		v.Content = []byte(content)

		version, err := toEntityVersion(&v)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate structure versions: %w", err)
	}

	return versions, nil
}

func scanStructure(row pgx.Row) (*storedStructure, error) {
	var (
		s       storedStructure
		content string
	)
	if err := row.Scan(&s.ID, &s.Project, &content, &s.IsFinal, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Content = []byte(content)
	return &s, nil
}
