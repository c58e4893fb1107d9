package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/diff"
	"github.com/futig/structure-engine/internal/pkg/jsonfix"
	"github.com/futig/structure-engine/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const DefaultAuditCategory = "diff_logs"

// Config carries the collaborators of a Usecase. Only Normalizer is required.
type Config struct {
	Codec      Codec          // defaults to document.NewJSONCodec()
	Storage    Storage        // nil disables audit records
	Normalizer Normalizer
	Fixer      jsonfix.Fixer // defaults to jsonfix.DefaultChain()
	Category   string        // audit category, defaults to DefaultAuditCategory
	Now        func() time.Time
}

// Usecase repairs, merges and normalizes candidate documents.
// It holds no mutable state and is safe for concurrent use.
type Usecase struct {
	codec      Codec
	storage    Storage
	normalizer Normalizer
	fixer      jsonfix.Fixer
	category   string
	now        func() time.Time
}

// NewUsecase creates a new reconciliation use case
func NewUsecase(cfg Config) *Usecase {
	uc := &Usecase{
		codec:      cfg.Codec,
		storage:    cfg.Storage,
		normalizer: cfg.Normalizer,
		fixer:      cfg.Fixer,
		category:   cfg.Category,
		now:        cfg.Now,
	}
	if uc.codec == nil {
		uc.codec = document.NewJSONCodec()
	}
	if uc.fixer == nil {
		uc.fixer = jsonfix.DefaultChain()
	}
	if uc.category == "" {
		uc.category = DefaultAuditCategory
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// Process repairs candidate, completes it from reference and normalizes the
// result into the canonical page shape
func (uc *Usecase) Process(ctx context.Context, candidate string, reference any) (*entity.ProcessResult, error) {
	ctx = logger.WithAction(ctx, "process")

	result, err := uc.Reconcile(ctx, candidate, reference)
	if err != nil {
		return nil, err
	}

	canonical, warnings := uc.Normalize(ctx, result.Document)
	result.Canonical = canonical
	result.Warnings = warnings

	ctxzap.Info(ctx, "candidate processed",
		zap.Bool("was_repaired", result.WasRepaired),
		zap.Int("pages", len(canonical.Pages)),
		zap.Int("fields", canonical.FieldCount()),
		zap.Int("warnings", len(warnings)),
	)

	return result, nil
}

// Reconcile repairs candidate and completes it from reference. An audit
// record is written when the output differs from what was received.
func (uc *Usecase) Reconcile(ctx context.Context, candidate string, reference any) (*entity.ProcessResult, error) {
	repaired, err := uc.RepairJSON(candidate, reference)
	if err != nil {
		ctxzap.Warn(ctx, "candidate is malformed", zap.Error(err), zap.Int("length", len(candidate)))
		return nil, fmt.Errorf("repair candidate: %w", err)
	}

	result := &entity.ProcessResult{
		Document:    repaired.Document,
		WasRepaired: repaired.WasRepaired,
		Warnings:    []entity.NormalizationWarning{},
	}

	if repaired.WasRepaired {
		result.AuditID = uc.audit(ctx, candidate, repaired.Document, reference)
	}

	return result, nil
}

// Repair is RepairJSON without audit side effects
func (uc *Usecase) Repair(_ context.Context, candidate string, reference any) (*entity.RepairResult, error) {
	res, err := uc.RepairJSON(candidate, reference)
	if err != nil {
		return nil, fmt.Errorf("repair candidate: %w", err)
	}
	return res, nil
}

// Merge completes base from reference
func (uc *Usecase) Merge(_ context.Context, base, reference any) any {
	return ComplementMissingKeys(base, reference)
}

// Normalize converts content into the canonical page shape
func (uc *Usecase) Normalize(ctx context.Context, content any) (*entity.CanonicalDoc, []entity.NormalizationWarning) {
	canonical, warnings := uc.normalizer.NormalizeForPages(ctx, content)
	if warnings == nil {
		warnings = []entity.NormalizationWarning{}
	}
	return canonical, warnings
}

// Diff returns a unified diff between two texts and its line counts
func (uc *Usecase) Diff(_ context.Context, before, after string) (string, entity.DiffStats) {
	return GenerateDiff(before, after), toDiffStats(diff.LineStats(before, after))
}
