package reconcile

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON_ValidWithoutReference(t *testing.T) {
	uc := NewUsecase(Config{})

	res, err := uc.RepairJSON(`{"b": 1, "a": [true]}`, nil)

	require.NoError(t, err)
	assert.False(t, res.WasRepaired)
	assertJSON(t, `{"b": 1, "a": [true]}`, res.Document)
	assert.Equal(t, []string{"b", "a"}, res.Document.(*document.Object).Keys())
}

func TestRepairJSON_UnquotedKeys(t *testing.T) {
	uc := NewUsecase(Config{})

	res, err := uc.RepairJSON(`{title: "X", items: [1,2]}`, nil)

	require.NoError(t, err)
	assert.True(t, res.WasRepaired)
	assertJSON(t, `{"title": "X", "items": [1, 2]}`, res.Document)
}

func TestRepairJSON_ValidCompletedFromReference(t *testing.T) {
	uc := NewUsecase(Config{})
	reference := mustDecode(t, `{"title": "", "body": ""}`)

	res, err := uc.RepairJSON(`{"title": "X"}`, reference)

	require.NoError(t, err)
	assert.True(t, res.WasRepaired)
	assertJSON(t, `{"title": "X", "body": ""}`, res.Document)
}

func TestRepairJSON_ValidAlreadyComplete(t *testing.T) {
	uc := NewUsecase(Config{})
	reference := mustDecode(t, `{"title": "", "body": ""}`)

	res, err := uc.RepairJSON(`{"body": "b", "title": "t"}`, reference)

	require.NoError(t, err)
	assert.False(t, res.WasRepaired)
	assertJSON(t, `{"body": "b", "title": "t"}`, res.Document)
}

func TestRepairJSON_RepairedAndCompleted(t *testing.T) {
	uc := NewUsecase(Config{})
	reference := mustDecode(t, `{"title": "", "tags": []}`)

	res, err := uc.RepairJSON("```json\n{title: \"X\",}\n```", reference)

	require.NoError(t, err)
	assert.True(t, res.WasRepaired)
	assertJSON(t, `{"title": "X", "tags": []}`, res.Document)
}

func TestRepairJSON_TrailingProse(t *testing.T) {
	uc := NewUsecase(Config{})

	for _, text := range []string{
		"{\"a\": 1}\n\nHope this helps!",
		`{a: 1} -- done`,
	} {
		res, err := uc.RepairJSON(text, nil)
		require.NoError(t, err, text)
		assert.True(t, res.WasRepaired)
		assertJSON(t, `{"a": 1}`, res.Document)
	}
}

func TestRepairJSON_FallsBackToReference(t *testing.T) {
	uc := NewUsecase(Config{})
	reference := mustDecode(t, `{"a": {"b": 1}}`)

	res, err := uc.RepairJSON("not json at all", reference)

	require.NoError(t, err)
	assert.True(t, res.WasRepaired)
	assert.True(t, document.Equal(reference, res.Document))

	// the fallback must be a copy
	res.Document.(*document.Object).Set("a", "changed")
	assertJSON(t, `{"a": {"b": 1}}`, reference)
}

func TestRepairJSON_MalformedWithoutReference(t *testing.T) {
	uc := NewUsecase(Config{})
	text := `{"a": [1, 2`

	res, err := uc.RepairJSON(text, nil)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, entity.ErrMalformedDocument))
	assert.True(t, errors.Is(err, document.ErrSyntax))

	var malformed *entity.MalformedDocumentError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, text, malformed.Text)
	assert.GreaterOrEqual(t, malformed.Offset, int64(0))
	assert.Contains(t, malformed.Error(), "offset")
}

func TestRepairJSON_MalformedOffsetPointsIntoInput(t *testing.T) {
	uc := NewUsecase(Config{})
	text := `{a: 1, "b": `

	_, err := uc.RepairJSON(text, nil)

	var malformed *entity.MalformedDocumentError
	require.True(t, errors.As(err, &malformed))

	_, direct := document.Decode(text)
	var syntaxErr *document.SyntaxError
	require.True(t, errors.As(direct, &syntaxErr))
	assert.Equal(t, syntaxErr.Offset, malformed.Offset)
	assert.LessOrEqual(t, malformed.Offset, int64(2), "the bare key is the first problem in the input")

	inspection := uc.Inspect(text)
	assert.Equal(t, entity.InspectionCorrupted, inspection.Status)
	assert.Equal(t, malformed.Offset, inspection.Offset)
}

func TestRepairJSON_CustomFixer(t *testing.T) {
	uc := NewUsecase(Config{
		Fixer: func(text string) string { return strings.TrimPrefix(text, "JSON:") },
	})

	res, err := uc.RepairJSON(`JSON:{"a": 1}`, nil)
	require.NoError(t, err)
	assert.True(t, res.WasRepaired)

	_, err = uc.RepairJSON(`{a: 1}`, nil)
	assert.ErrorIs(t, err, entity.ErrMalformedDocument)
}

func TestInspect(t *testing.T) {
	uc := NewUsecase(Config{})

	tests := []struct {
		name string
		text string
		want entity.InspectionStatus
	}{
		{"valid", `{"a": 1}`, entity.InspectionValid},
		{"repairable", `{a: 1,}`, entity.InspectionRepairable},
		{"corrupted", `{"a": `, entity.InspectionCorrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uc.Inspect(tt.text)
			assert.Equal(t, tt.want, got.Status)
			if tt.want == entity.InspectionCorrupted {
				assert.NotEmpty(t, got.Error)
			} else {
				assert.Empty(t, got.Error)
			}
		})
	}
}
