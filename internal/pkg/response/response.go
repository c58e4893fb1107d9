package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response. HTML escaping is off so documents come back as sent.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Attachment writes a downloadable file
func Attachment(w http.ResponseWriter, file *entity.ExportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data) //nolint:errcheck
}

// Error logs err and writes an ErrorResponse
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ErrorWithDetails(ctx, w, status, message, err, nil)
}

func ErrorWithDetails(ctx context.Context, w http.ResponseWriter, status int, message string, err error, details any) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}

	resp := entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Details: details,
	}
	if err != nil && status < http.StatusInternalServerError {
		resp.Message = fmt.Sprintf("%s: %v", message, err)
	}
	JSON(w, status, resp)
}

// UsecaseError maps domain errors onto HTTP statuses
func UsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var malformed *entity.MalformedDocumentError

	switch {
	case errors.As(err, &malformed):
		ErrorWithDetails(ctx, w, http.StatusUnprocessableEntity, "document could not be repaired, retry with corrected text", err,
			entity.MalformedDetails{Text: malformed.Text, Offset: malformed.Offset})
	case errors.Is(err, entity.ErrStructureNotFound):
		Error(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrPayloadTooLarge):
		Error(ctx, w, http.StatusRequestEntityTooLarge, "payload too large", err)
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat), errors.Is(err, entity.ErrMissingField):
		Error(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidStructure):
		Error(ctx, w, http.StatusUnprocessableEntity, "invalid structure", err)
	case errors.Is(err, entity.ErrUnsupportedFormat):
		Error(ctx, w, http.StatusBadRequest, "unsupported format", err)
	default:
		Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
