package structure

import (
	"context"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/formatter"
)

type Repository interface {
	Get(ctx context.Context, id string) (*entity.Structure, error)
	Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error)
	History(ctx context.Context, id string) ([]entity.StructureVersion, error)
}

type Reconciler interface {
	Process(ctx context.Context, candidate string, reference any) (*entity.ProcessResult, error)
	Normalize(ctx context.Context, content any) (*entity.CanonicalDoc, []entity.NormalizationWarning)
}

type FormatterFactory interface {
	Create(format entity.ExportFormat) (formatter.Formatter, error)
}
