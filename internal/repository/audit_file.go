package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/structure-engine/internal/entity"
)

var _ AuditStorage = &AuditFileStorage{}

// AuditFileStorage writes every record to <root>/<category>/<key>.json
type AuditFileStorage struct {
	root string
}

func NewAuditFileStorage(root string) *AuditFileStorage {
	return &AuditFileStorage{root: root}
}

func (s *AuditFileStorage) Write(ctx context.Context, category, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSegment("category", category); err != nil {
		return err
	}
	if err := validateSegment("key", key); err != nil {
		return err
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}

	path := filepath.Join(dir, key+".json")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", entity.ErrAuditRecordExists, path)
		}
		return fmt.Errorf("create audit file: %w", err)
	}

	if _, err := f.Write(payload); err != nil {
		f.Close()
		return fmt.Errorf("write audit file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audit file: %w", err)
	}

	return nil
}

// validateSegment rejects names that would escape their directory
func validateSegment(field, value string) error {
	if value == "" || value == "." || value == ".." || strings.ContainsAny(value, `/\`) {
		return fmt.Errorf("%w: %s %q", entity.ErrInvalidParameter, field, value)
	}
	return nil
}
