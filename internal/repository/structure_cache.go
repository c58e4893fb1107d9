package repository

import (
	"context"
	"time"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/patrickmn/go-cache"
)

var _ StructureRepository = &CachedStructureRepository{}

// CachedStructureRepository serves Get from an in-process cache and keeps it
// in step with Save. History always goes to the wrapped repository.
type CachedStructureRepository struct {
	next  StructureRepository
	cache *cache.Cache
}

func NewCachedStructureRepository(next StructureRepository, ttl time.Duration) *CachedStructureRepository {
	return &CachedStructureRepository{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *CachedStructureRepository) Get(ctx context.Context, id string) (*entity.Structure, error) {
	if cached, ok := r.cache.Get(id); ok {
		return copyStructure(cached.(*entity.Structure)), nil
	}

	structure, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(id, copyStructure(structure))
	return structure, nil
}

func (r *CachedStructureRepository) Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error) {
	saved, err := r.next.Save(ctx, structure)
	if err != nil {
		r.cache.Delete(structure.ID)
		return nil, err
	}

	r.cache.SetDefault(saved.ID, copyStructure(saved))
	return saved, nil
}

func (r *CachedStructureRepository) History(ctx context.Context, id string) ([]entity.StructureVersion, error) {
	return r.next.History(ctx, id)
}

// copyStructure detaches the document tree so callers cannot mutate cached entries
func copyStructure(s *entity.Structure) *entity.Structure {
	out := *s
	out.Content = document.Clone(s.Content)
	return &out
}
