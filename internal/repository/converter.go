package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
)

// storedStructure is the serialized form used by the key/value and file stores.
// Content stays raw so member order survives the round trip.
type storedStructure struct {
	ID        string          `json:"id"`
	Project   string          `json:"project"`
	Content   json.RawMessage `json:"content"`
	IsFinal   bool            `json:"is_final"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type storedVersion struct {
	StructureID string          `json:"structure_id"`
	Version     int             `json:"version"`
	Content     json.RawMessage `json:"content"`
	IsFinal     bool            `json:"is_final"`
	SavedAt     time.Time       `json:"saved_at"`
}

func encodeContent(content any) ([]byte, error) {
	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return data, nil
}

func decodeContent(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	content, err := document.Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidStructure, err)
	}
	return content, nil
}

func toStoredStructure(s *entity.Structure) (*storedStructure, error) {
	content, err := encodeContent(s.Content)
	if err != nil {
		return nil, err
	}
	return &storedStructure{
		ID:        s.ID,
		Project:   s.Project,
		Content:   content,
		IsFinal:   s.IsFinal,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

func toEntityStructure(s *storedStructure) (*entity.Structure, error) {
	content, err := decodeContent(s.Content)
	if err != nil {
		return nil, err
	}
	return &entity.Structure{
		ID:        s.ID,
		Project:   s.Project,
		Content:   content,
		IsFinal:   s.IsFinal,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

// versionOf snapshots the current state of s as history entry number version
func versionOf(s *storedStructure, version int, savedAt time.Time) storedVersion {
	return storedVersion{
		StructureID: s.ID,
		Version:     version,
		Content:     s.Content,
		IsFinal:     s.IsFinal,
		SavedAt:     savedAt,
	}
}

func toEntityVersion(v *storedVersion) (*entity.StructureVersion, error) {
	content, err := decodeContent(v.Content)
	if err != nil {
		return nil, err
	}
	return &entity.StructureVersion{
		StructureID: v.StructureID,
		Version:     v.Version,
		Content:     content,
		IsFinal:     v.IsFinal,
		SavedAt:     v.SavedAt,
	}, nil
}

// prepareSave fills timestamps for a structure that is about to replace prev
func prepareSave(s entity.Structure, prev *storedStructure, now time.Time) entity.Structure {
	s.UpdatedAt = now
	if prev != nil {
		s.CreatedAt = prev.CreatedAt
	} else if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	return s
}
