package reconcile

import (
	"errors"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
)

// RepairJSON decodes text, repairing it when needed, and completes it from
// reference when one is given. A nil reference means no reference.
//
// When text cannot be decoded even after the fixers ran, a deep copy of the
// reference is returned instead. Without a reference the call fails with
// *entity.MalformedDocumentError.
func (uc *Usecase) RepairJSON(text string, reference any) (*entity.RepairResult, error) {
	parsed, err := uc.codec.Decode(text)
	if err == nil {
		if reference == nil {
			return &entity.RepairResult{Document: parsed, WasRepaired: false}, nil
		}
		merged := ComplementMissingKeys(parsed, reference)
		return &entity.RepairResult{
			Document:    merged,
			WasRepaired: !document.Equal(merged, parsed),
		}, nil
	}

	fixed := uc.fixer(text)
	if repaired, fixErr := uc.codec.Decode(fixed); fixErr == nil {
		if reference != nil {
			repaired = ComplementMissingKeys(repaired, reference)
		}
		return &entity.RepairResult{Document: repaired, WasRepaired: true}, nil
	}

	if reference != nil {
		return &entity.RepairResult{Document: document.Clone(reference), WasRepaired: true}, nil
	}

	// offsets are reported against the text the caller sent
	return nil, &entity.MalformedDocumentError{
		Text:   text,
		Offset: syntaxOffset(err),
		Err:    err,
	}
}

// Inspect classifies text without side effects
func (uc *Usecase) Inspect(text string) entity.Inspection {
	_, err := uc.codec.Decode(text)
	if err == nil {
		return entity.Inspection{Status: entity.InspectionValid}
	}

	if _, fixErr := uc.codec.Decode(uc.fixer(text)); fixErr == nil {
		return entity.Inspection{Status: entity.InspectionRepairable}
	}

	return entity.Inspection{
		Status: entity.InspectionCorrupted,
		Offset: syntaxOffset(err),
		Error:  err.Error(),
	}
}

func syntaxOffset(err error) int64 {
	var syntaxErr *document.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	return -1
}
