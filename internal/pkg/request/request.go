package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
)

// DecodeJSON reads a JSON body into dst. A positive limit caps the body size.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", entity.ErrPayloadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: request body: %v", entity.ErrInvalidFormat, err)
	}
	return nil
}

// Document decodes an optional raw JSON member keeping member order.
// Absent and null both mean no document.
func Document(field string, raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	doc, err := document.Decode(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrInvalidFormat, field, err)
	}
	return doc, nil
}
