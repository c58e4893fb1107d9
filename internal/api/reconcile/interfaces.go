package reconcile

import (
	"context"

	"github.com/futig/structure-engine/internal/entity"
)

type ReconcileUsecase interface {
	Process(ctx context.Context, candidate string, reference any) (*entity.ProcessResult, error)
	Reconcile(ctx context.Context, candidate string, reference any) (*entity.ProcessResult, error)
	Repair(ctx context.Context, candidate string, reference any) (*entity.RepairResult, error)
	Merge(ctx context.Context, base, reference any) any
	Normalize(ctx context.Context, content any) (*entity.CanonicalDoc, []entity.NormalizationWarning)
	Diff(ctx context.Context, before, after string) (string, entity.DiffStats)
	Inspect(text string) entity.Inspection
}
