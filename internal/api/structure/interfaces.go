package structure

import (
	"context"

	"github.com/futig/structure-engine/internal/entity"
)

type StructureUsecase interface {
	Get(ctx context.Context, id string) (*entity.Structure, error)
	Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error)
	History(ctx context.Context, id string) ([]entity.StructureVersion, error)
	Reconcile(ctx context.Context, id, candidate string, save bool) (*entity.ReconcileStructureResult, error)
	Preview(ctx context.Context, id string) (*entity.NormalizeResponse, error)
	Export(ctx context.Context, id string, format entity.ExportFormat) (*entity.ExportFile, error)
}
