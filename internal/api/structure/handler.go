package structure

import (
	"context"
	"net/http"

	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/logger"
	"github.com/futig/structure-engine/internal/pkg/request"
	"github.com/futig/structure-engine/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase StructureUsecase
	cfg     config.EngineConfig
}

func NewHandler(usecase StructureUsecase, cfg config.EngineConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// GetStructure handles GET /structures/{id}
func (h *Handler) GetStructure(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.context(r, "GetStructure")

	structure, err := h.usecase.Get(ctx, id)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, structure)
}

// SaveStructure handles PUT /structures/{id}
func (h *Handler) SaveStructure(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.context(r, "SaveStructure")

	var req entity.SaveStructureRequest
	if err := request.DecodeJSON(w, r, &req, h.cfg.MaxCandidateBytes); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	structure, err := toEntityStructure(id, &req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	saved, err := h.usecase.Save(ctx, *structure)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, saved)
}

// GetHistory handles GET /structures/{id}/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.context(r, "GetHistory")

	versions, err := h.usecase.History(ctx, id)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.StructureHistoryResponse{ID: id, Versions: versions})
}

// ReconcileStructure handles POST /structures/{id}/reconcile
func (h *Handler) ReconcileStructure(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.context(r, "ReconcileStructure")

	var req entity.ReconcileStructureRequest
	if err := request.DecodeJSON(w, r, &req, h.cfg.MaxCandidateBytes*2); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	result, err := h.usecase.Reconcile(ctx, id, req.Candidate, req.Save)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "structure candidate reconciled",
		zap.Bool("was_repaired", result.WasRepaired),
		zap.Bool("saved", result.Saved != nil),
	)
	response.Success(w, result)
}

// Preview handles GET /structures/{id}/preview
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.context(r, "Preview")

	preview, err := h.usecase.Preview(ctx, id)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, preview)
}

// Export handles GET /structures/{id}/export?format=md|pdf|docx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, id := h.context(r, "Export")

	format := entity.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}
	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	file, err := h.usecase.Export(ctx, id, format)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "structure exported", zap.Int("bytes", len(file.Data)))
	response.Attachment(w, file)
}

func (h *Handler) context(r *http.Request, action string) (ctx context.Context, id string) {
	id = chi.URLParam(r, "id")
	ctx = logger.AddFields(r.Context(),
		zap.String("structure_id", id),
		zap.String("action", action),
	)
	return ctx, id
}
