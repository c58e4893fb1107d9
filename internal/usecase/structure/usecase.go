package structure

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/logger"
	"github.com/futig/structure-engine/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// StructureUsecase manages reference structures and reconciles candidates against them
type StructureUsecase struct {
	repo       Repository
	reconciler Reconciler
	formatters FormatterFactory
	validator  *validator.Validator
}

// NewUsecase creates a new structure use case
func NewUsecase(
	repo Repository,
	reconciler Reconciler,
	formatters FormatterFactory,
	validator *validator.Validator,
) *StructureUsecase {
	return &StructureUsecase{
		repo:       repo,
		reconciler: reconciler,
		formatters: formatters,
		validator:  validator,
	}
}

func (uc *StructureUsecase) Get(ctx context.Context, id string) (*entity.Structure, error) {
	if err := uc.validator.ValidateStructureID(id); err != nil {
		return nil, err
	}

	structure, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get structure: %w", err)
	}
	return structure, nil
}

// Save stores structure as the new reference, pushing the previous one into history
func (uc *StructureUsecase) Save(ctx context.Context, structure entity.Structure) (*entity.Structure, error) {
	if err := uc.validator.ValidateStructure(&structure); err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, structure)
	if err != nil {
		return nil, fmt.Errorf("save structure: %w", err)
	}

	ctxzap.Info(ctx, "structure saved",
		zap.String("structure_id", saved.ID),
		zap.Bool("is_final", saved.IsFinal),
	)
	return saved, nil
}

func (uc *StructureUsecase) History(ctx context.Context, id string) ([]entity.StructureVersion, error) {
	if err := uc.validator.ValidateStructureID(id); err != nil {
		return nil, err
	}

	// distinguish an unknown structure from one that was never replaced
	if _, err := uc.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get structure: %w", err)
	}

	versions, err := uc.repo.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get structure history: %w", err)
	}
	return versions, nil
}

// Reconcile processes candidate against the stored structure. An unknown id
// means there is no reference yet. With save set the result becomes the new
// reference.
func (uc *StructureUsecase) Reconcile(ctx context.Context, id, candidate string, save bool) (*entity.ReconcileStructureResult, error) {
	ctx = logger.WithStructureID(ctx, id)

	if err := uc.validator.ValidateStructureID(id); err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateCandidate(candidate); err != nil {
		return nil, err
	}

	var (
		reference any
		project   string
		isFinal   bool
	)
	current, err := uc.repo.Get(ctx, id)
	switch {
	case err == nil:
		reference = current.Content
		project = current.Project
		isFinal = current.IsFinal
	case errors.Is(err, entity.ErrStructureNotFound):
		ctxzap.Debug(ctx, "no stored reference, processing candidate alone")
	default:
		return nil, fmt.Errorf("get reference structure: %w", err)
	}

	processed, err := uc.reconciler.Process(ctx, candidate, reference)
	if err != nil {
		return nil, fmt.Errorf("process candidate: %w", err)
	}

	result := &entity.ReconcileStructureResult{ProcessResult: *processed}
	if !save {
		return result, nil
	}

	saved, err := uc.Save(ctx, entity.Structure{
		ID:      id,
		Project: project,
		Content: processed.Document,
		IsFinal: isFinal,
	})
	if err != nil {
		return nil, err
	}
	result.Saved = saved

	return result, nil
}

// Preview normalizes the stored structure for display
func (uc *StructureUsecase) Preview(ctx context.Context, id string) (*entity.NormalizeResponse, error) {
	structure, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	canonical, warnings := uc.reconciler.Normalize(ctx, structure.Content)
	return &entity.NormalizeResponse{Canonical: canonical, Warnings: warnings}, nil
}

// Export renders the preview of a stored structure in the requested format
func (uc *StructureUsecase) Export(ctx context.Context, id string, format entity.ExportFormat) (*entity.ExportFile, error) {
	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	preview, err := uc.Preview(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(exportTitle(id), preview.Canonical)
	if err != nil {
		return nil, fmt.Errorf("format structure: %w", err)
	}

	return &entity.ExportFile{
		Filename:    id + f.FileExtension(),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}
