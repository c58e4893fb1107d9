package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/redis/go-redis/v9"
)

var _ StructureRepository = &StructureRedis{}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

const (
	structurePrefix        = "structure:"
	structureHistorySuffix = ":history"
	structureVersionSuffix = ":version"
)

// StructureRedis stores the current structure as a JSON string and its
// history as a capped list, newest first
type StructureRedis struct {
	client *redis.Client
	now    func() time.Time
}

func NewStructureRedis(client *redis.Client) *StructureRedis {
	return &StructureRedis{client: client, now: time.Now}
}

func (s *StructureRedis) Get(ctx context.Context, id string) (*entity.Structure, error) {
	stored, err := s.load(ctx, s.client, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, entity.ErrStructureNotFound
	}
	return toEntityStructure(stored)
}

func (s *StructureRedis) Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error) {
	key := structurePrefix + structure.ID
	var saved entity.Structure

	// WATCH makes the read-modify-write atomic; conflicting writers retry
	txf := func(tx *redis.Tx) error {
		prev, err := s.load(ctx, tx, structure.ID)
		if err != nil {
			return err
		}

		version := 0
		if prev != nil {
			version, err = s.lastVersion(ctx, tx, structure.ID)
			if err != nil {
				return err
			}
		}

		now := s.now().UTC()
		saved = prepareSave(structure, prev, now)
		stored, err := toStoredStructure(&saved)
		if err != nil {
			return err
		}
		data, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("marshal structure: %w", err)
		}

		var entry []byte
		if prev != nil {
			entry, err = json.Marshal(versionOf(prev, version+1, now))
			if err != nil {
				return fmt.Errorf("marshal structure version: %w", err)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if entry != nil {
				historyKey := structurePrefix + structure.ID + structureHistorySuffix
				pipe.Set(ctx, structurePrefix+structure.ID+structureVersionSuffix, version+1, 0)
				pipe.LPush(ctx, historyKey, entry)
				pipe.LTrim(ctx, historyKey, 0, entity.MaxStructureHistory-1)
			}
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key, key+structureVersionSuffix)
		if err == nil {
			return &saved, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, fmt.Errorf("save structure: %w", err)
		}
	}

	return nil, fmt.Errorf("save structure: %w", redis.TxFailedErr)
}

func (s *StructureRedis) History(ctx context.Context, id string) ([]entity.StructureVersion, error) {
	items, err := s.client.LRange(ctx, structurePrefix+id+structureHistorySuffix, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list structure versions: %w", err)
	}

	versions := make([]entity.StructureVersion, 0, len(items))
	for _, item := range items {
		var v storedVersion
		if err := json.Unmarshal([]byte(item), &v); err != nil {
			return nil, fmt.Errorf("unmarshal structure version: %w", err)
		}
		version, err := toEntityVersion(&v)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *version)
	}
	return versions, nil
}

// lastVersion reads the history counter. It only moves forward so trimmed
// entries never reuse a number.
func (s *StructureRedis) lastVersion(ctx context.Context, c getter, id string) (int, error) {
	n, err := c.Get(ctx, structurePrefix+id+structureVersionSuffix).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version counter: %w", err)
	}
	return n, nil
}

func (s *StructureRedis) load(ctx context.Context, c getter, id string) (*storedStructure, error) {
	data, err := c.Get(ctx, structurePrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get structure: %w", err)
	}

	var stored storedStructure
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidStructure, err)
	}
	return &stored, nil
}
