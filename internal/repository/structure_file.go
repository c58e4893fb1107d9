package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/futig/structure-engine/internal/entity"
)

var _ StructureRepository = &StructureFile{}

// HistoryFileSuffix marks the per-structure history files next to <id>.json
const HistoryFileSuffix = "_history.json"

// StructureFile keeps structures as <dir>/<id>.json with the history in
// <dir>/<id>_history.json. Safe for use by one process at a time.
type StructureFile struct {
	dir   string
	mu    sync.Mutex
	now   func() time.Time
	write func(path string, v any) error
}

func NewStructureFile(dir string) *StructureFile {
	return &StructureFile{dir: dir, now: time.Now, write: writeJSONFile}
}

func (s *StructureFile) Get(ctx context.Context, id string) (*entity.Structure, error) {
	if err := validateSegment("id", id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, entity.ErrStructureNotFound
	}
	return toEntityStructure(stored)
}

func (s *StructureFile) Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error) {
	if err := validateSegment("id", structure.ID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create structure directory: %w", err)
	}

	prev, err := s.load(structure.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	saved := prepareSave(structure, prev, now)
	stored, err := toStoredStructure(&saved)
	if err != nil {
		return nil, err
	}

	var history []storedVersion
	if prev != nil {
		history, err = s.loadHistory(structure.ID)
		if err != nil {
			return nil, err
		}
		next := 1
		if len(history) > 0 {
			next = history[0].Version + 1
		}
		updated := append([]storedVersion{versionOf(prev, next, now)}, history...)
		if len(updated) > entity.MaxStructureHistory {
			updated = updated[:entity.MaxStructureHistory]
		}
		if err := s.write(s.historyPath(structure.ID), updated); err != nil {
			return nil, fmt.Errorf("write structure history: %w", err)
		}
	}

	if err := s.write(s.path(structure.ID), stored); err != nil {
		if prev != nil {
			if rbErr := s.restoreHistory(structure.ID, history); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("restore structure history: %w", rbErr))
			}
		}
		return nil, fmt.Errorf("write structure: %w", err)
	}

	return &saved, nil
}

// restoreHistory puts back the history that was on disk before a failed save
func (s *StructureFile) restoreHistory(id string, history []storedVersion) error {
	if history == nil {
		err := os.Remove(s.historyPath(id))
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return s.write(s.historyPath(id), history)
}

func (s *StructureFile) History(ctx context.Context, id string) ([]entity.StructureVersion, error) {
	if err := validateSegment("id", id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistory(id)
	if err != nil {
		return nil, err
	}

	versions := make([]entity.StructureVersion, 0, len(history))
	for i := range history {
		v, err := toEntityVersion(&history[i])
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, nil
}

func (s *StructureFile) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *StructureFile) historyPath(id string) string {
	return filepath.Join(s.dir, id+HistoryFileSuffix)
}

func (s *StructureFile) load(id string) (*storedStructure, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}

	var stored storedStructure
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidStructure, err)
	}
	return &stored, nil
}

func (s *StructureFile) loadHistory(id string) ([]storedVersion, error) {
	data, err := os.ReadFile(s.historyPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read structure history: %w", err)
	}

	var history []storedVersion
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("%w: history: %v", entity.ErrInvalidStructure, err)
	}
	return history, nil
}

// writeJSONFile replaces path atomically through a temporary file in the same directory
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
