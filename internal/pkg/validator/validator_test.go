package validator

import (
	"strings"
	"testing"

	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestValidateCandidate(t *testing.T) {
	v := NewValidator(config.EngineConfig{MaxCandidateBytes: 10})

	assert.NoError(t, v.ValidateCandidate(`{"a": 1}`))
	assert.ErrorIs(t, v.ValidateCandidate(""), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateCandidate(" \n\t"), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateCandidate(strings.Repeat("x", 11)), entity.ErrPayloadTooLarge)
}

func TestValidateCandidate_NoLimit(t *testing.T) {
	v := NewValidator(config.EngineConfig{})
	assert.NoError(t, v.ValidateCandidate(strings.Repeat("x", 1<<16)))
}

func TestValidateStructureID(t *testing.T) {
	v := NewValidator(config.EngineConfig{})

	for _, id := range []string{"form1", "Weekly_Report-2024.v2", strings.Repeat("a", 128)} {
		assert.NoError(t, v.ValidateStructureID(id), id)
	}
	assert.ErrorIs(t, v.ValidateStructureID(""), entity.ErrMissingField)
	for _, id := range []string{"-lead", ".hidden", "a..b", "a/b", "名前", strings.Repeat("a", 129)} {
		assert.ErrorIs(t, v.ValidateStructureID(id), entity.ErrInvalidParameter, id)
	}
}

func TestValidateStructure(t *testing.T) {
	v := NewValidator(config.EngineConfig{})

	valid := &entity.Structure{ID: "form1", Content: document.NewObject().Set("a", "b")}
	assert.NoError(t, v.ValidateStructure(valid))

	tests := []struct {
		name      string
		structure *entity.Structure
		want      error
	}{
		{"bad id", &entity.Structure{ID: "../x", Content: document.NewObject()}, entity.ErrInvalidParameter},
		{"no content", &entity.Structure{ID: "form1"}, entity.ErrMissingField},
		{"array content", &entity.Structure{ID: "form1", Content: []any{}}, entity.ErrInvalidStructure},
		{"invalid member", &entity.Structure{ID: "form1", Content: document.NewObject().Set("f", struct{}{})}, entity.ErrInvalidStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, v.ValidateStructure(tt.structure), tt.want)
		})
	}
}
