package reconcile

import (
	"fmt"
	"net/http"

	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/logger"
	"github.com/futig/structure-engine/internal/pkg/request"
	"github.com/futig/structure-engine/internal/pkg/response"
	"github.com/futig/structure-engine/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// bodyOverhead leaves room for a reference document next to a full size candidate
const bodyOverhead = 4

type Handler struct {
	usecase   ReconcileUsecase
	cfg       config.EngineConfig
	validator *validator.Validator
}

func NewHandler(
	usecase ReconcileUsecase,
	cfg config.EngineConfig,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Reconcile handles POST /reconcile
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Reconcile")

	var req entity.ReconcileRequest
	if err := h.decode(w, r, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}
	if err := h.validator.ValidateCandidate(req.Candidate); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	reference, err := request.Document("reference", req.Reference)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	normalize := h.cfg.NormalizeByDefault
	if req.Normalize != nil {
		normalize = *req.Normalize
	}

	var result *entity.ProcessResult
	if normalize {
		result, err = h.usecase.Process(ctx, req.Candidate, reference)
	} else {
		result, err = h.usecase.Reconcile(ctx, req.Candidate, reference)
	}
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "candidate reconciled",
		zap.Bool("was_repaired", result.WasRepaired),
		zap.String("audit_id", result.AuditID),
	)
	response.Success(w, result)
}

// Repair handles POST /repair
func (h *Handler) Repair(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Repair")

	var req entity.RepairRequest
	if err := h.decode(w, r, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}
	if err := h.validator.ValidateCandidate(req.Candidate); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	reference, err := request.Document("reference", req.Reference)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	result, err := h.usecase.Repair(ctx, req.Candidate, reference)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Inspect handles POST /inspect
func (h *Handler) Inspect(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Inspect")

	var req entity.InspectRequest
	if err := h.decode(w, r, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}
	if err := h.validator.ValidateCandidate(req.Candidate); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, h.usecase.Inspect(req.Candidate))
}

// Merge handles POST /merge
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Merge")

	var req entity.MergeRequest
	if err := h.decode(w, r, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	base, err := request.Document("base", req.Base)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}
	reference, err := request.Document("reference", req.Reference)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}
	if base == nil || reference == nil {
		response.UsecaseError(ctx, w, fmt.Errorf("%w: base and reference", entity.ErrMissingField))
		return
	}

	response.Success(w, &entity.MergeResponse{Document: h.usecase.Merge(ctx, base, reference)})
}

// Normalize handles POST /normalize
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Normalize")

	var req entity.NormalizeRequest
	if err := h.decode(w, r, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	content, err := request.Document("content", req.Content)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	canonical, warnings := h.usecase.Normalize(ctx, content)
	response.Success(w, &entity.NormalizeResponse{Canonical: canonical, Warnings: warnings})
}

// Diff handles POST /diff
func (h *Handler) Diff(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Diff")

	var req entity.DiffRequest
	if err := h.decode(w, r, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	diffText, stats := h.usecase.Diff(ctx, req.Before, req.After)
	response.Success(w, &entity.DiffResponse{Diff: diffText, Stats: stats})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return request.DecodeJSON(w, r, dst, h.cfg.MaxCandidateBytes*bodyOverhead)
}
