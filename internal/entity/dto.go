package entity

import "encoding/json"

// Document-valued fields travel as raw JSON so member order is preserved
// when the handler decodes them into Document trees.

type ReconcileRequest struct {
	Candidate string          `json:"candidate"`
	Reference json.RawMessage `json:"reference,omitempty"`
	Normalize *bool           `json:"normalize,omitempty"`
}

type RepairRequest struct {
	Candidate string          `json:"candidate"`
	Reference json.RawMessage `json:"reference,omitempty"`
}

type InspectRequest struct {
	Candidate string `json:"candidate"`
}

type MergeRequest struct {
	Base      json.RawMessage `json:"base"`
	Reference json.RawMessage `json:"reference"`
}

type MergeResponse struct {
	Document any `json:"document"`
}

type NormalizeRequest struct {
	Content json.RawMessage `json:"content"`
}

type NormalizeResponse struct {
	Canonical *CanonicalDoc          `json:"canonical"`
	Warnings  []NormalizationWarning `json:"warnings"`
}

type DiffRequest struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type DiffResponse struct {
	Diff  string    `json:"diff"`
	Stats DiffStats `json:"stats"`
}

type SaveStructureRequest struct {
	Project string          `json:"project"`
	Content json.RawMessage `json:"content"`
	IsFinal bool            `json:"is_final"`
}

type ReconcileStructureRequest struct {
	Candidate string `json:"candidate"`
	Save      bool   `json:"save"`
}

// ReconcileStructureResult is a ProcessResult against a stored reference
type ReconcileStructureResult struct {
	ProcessResult
	Saved *Structure `json:"saved,omitempty"`
}

type StructureHistoryResponse struct {
	ID       string             `json:"id"`
	Versions []StructureVersion `json:"versions"`
}

// ExportFile is a rendered preview ready to be downloaded
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// MalformedDetails lets clients show the offending text and ask for a retry
type MalformedDetails struct {
	Text   string `json:"text"`
	Offset int64  `json:"offset"`
}
