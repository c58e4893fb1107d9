package request

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Candidate string `json:"candidate"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"candidate": "x"}`))

	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &dst, 0))
	assert.Equal(t, "x", dst.Candidate)
}

func TestDecodeJSON_Errors(t *testing.T) {
	var dst map[string]any

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"candidate": `))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &dst, 0), entity.ErrInvalidFormat)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"candidate": "`+strings.Repeat("x", 100)+`"}`))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &dst, 16), entity.ErrPayloadTooLarge)
}

func TestDocument(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", " null "} {
		doc, err := Document("reference", json.RawMessage(raw))
		require.NoError(t, err)
		assert.Nil(t, doc, "%q", raw)
	}

	doc, err := Document("reference", json.RawMessage(`{"b": 1, "a": 2}`))
	require.NoError(t, err)
	obj, ok := doc.(*document.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, obj.Keys())
}
