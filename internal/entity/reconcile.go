package entity

// RepairResult is the outcome of repairing candidate text.
// When WasRepaired is false Document is the exact decode of the input.
type RepairResult struct {
	Document    any  `json:"document"`
	WasRepaired bool `json:"was_repaired"`
}

// ProcessResult is returned by the reconciliation facade
type ProcessResult struct {
	Document    any                    `json:"document"`
	Canonical   *CanonicalDoc          `json:"canonical,omitempty"`
	WasRepaired bool                   `json:"was_repaired"`
	AuditID     string                 `json:"audit_id,omitempty"`
	Warnings    []NormalizationWarning `json:"warnings"`
}

// InspectionStatus classifies stored or incoming text
type InspectionStatus string

const (
	InspectionValid      InspectionStatus = "valid"
	InspectionRepairable InspectionStatus = "repairable"
	InspectionCorrupted  InspectionStatus = "corrupted"
)

// Inspection describes whether text parses as-is, parses after repair, or not at all
type Inspection struct {
	Status InspectionStatus `json:"status"`
	Offset int64            `json:"offset,omitempty"`
	Error  string           `json:"error,omitempty"`
}
