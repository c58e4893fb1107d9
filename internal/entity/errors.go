package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Reconciliation errors
	ErrMalformedDocument = errors.New("malformed document")
	ErrAuditWrite        = errors.New("audit record write failed")
	ErrAuditRecordExists = errors.New("audit record already exists")

	// Structure errors
	ErrStructureNotFound = errors.New("structure not found")
	ErrInvalidStructure  = errors.New("invalid structure data")

	// Validation errors
	ErrMissingField      = errors.New("required field is missing")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Configuration errors
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)

// MalformedDocumentError is returned when candidate text could not be parsed
// even after repair and no reference document was available to fall back to.
type MalformedDocumentError struct {
	Text   string // offending text as received
	Offset int64  // parse failure position in Text, -1 if unknown
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %v", ErrMalformedDocument, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrMalformedDocument, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// AuditWriteError wraps a storage failure while persisting an audit record.
// It never fails the reconciliation that produced the record.
type AuditWriteError struct {
	Category string
	Key      string
	Err      error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("%s (%s/%s): %v", ErrAuditWrite, e.Category, e.Key, e.Err)
}

func (e *AuditWriteError) Unwrap() error {
	return e.Err
}

func (e *AuditWriteError) Is(target error) bool {
	return target == ErrAuditWrite
}
