package entity

import "time"

// AuditRecord captures one repair or merge. Records are written once and never updated.
type AuditRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Original  string    `json:"original"`
	Repaired  any       `json:"repaired"`
	Reference any       `json:"reference"`
	Diff      string    `json:"diff"`
	Stats     DiffStats `json:"stats"`
}

type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}
