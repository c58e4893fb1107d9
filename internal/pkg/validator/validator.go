package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/structure-engine/internal/config"
	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
)

var structureIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// Validator checks incoming engine requests against the configured limits
type Validator struct {
	cfg config.EngineConfig
}

func NewValidator(cfg config.EngineConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateCandidate bounds candidate text instead of cancelling work mid-repair
func (v *Validator) ValidateCandidate(candidate string) error {
	if strings.TrimSpace(candidate) == "" {
		return fmt.Errorf("%w: candidate", entity.ErrMissingField)
	}
	return v.ValidateSize("candidate", len(candidate))
}

// ValidateSize rejects payloads above the configured limit
func (v *Validator) ValidateSize(field string, size int) error {
	if v.cfg.MaxCandidateBytes > 0 && int64(size) > v.cfg.MaxCandidateBytes {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", entity.ErrPayloadTooLarge, field, size, v.cfg.MaxCandidateBytes)
	}
	return nil
}

func (v *Validator) ValidateStructureID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id", entity.ErrMissingField)
	}
	if !structureIDPattern.MatchString(id) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: structure id %q", entity.ErrInvalidParameter, id)
	}
	return nil
}

// ValidateStructure checks a structure before it is stored as a reference
func (v *Validator) ValidateStructure(s *entity.Structure) error {
	if err := v.ValidateStructureID(s.ID); err != nil {
		return err
	}
	if s.Content == nil {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	if _, ok := s.Content.(*document.Object); !ok {
		return fmt.Errorf("%w: content must be an object, got %s", entity.ErrInvalidStructure, document.KindOf(s.Content))
	}
	if err := document.Validate(s.Content); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidStructure, err)
	}
	return nil
}
