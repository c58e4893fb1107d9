package entity

import "time"

// MaxStructureHistory is how many previous versions are kept per structure
const MaxStructureHistory = 10

// Structure is a previously accepted document used as the reference for new candidates
type Structure struct {
	ID        string    `json:"id"`
	Project   string    `json:"project"`
	Content   any       `json:"content"`
	IsFinal   bool      `json:"is_final"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StructureVersion is a superseded copy of a structure
type StructureVersion struct {
	StructureID string    `json:"structure_id"`
	Version     int       `json:"version"`
	Content     any       `json:"content"`
	IsFinal     bool      `json:"is_final"`
	SavedAt     time.Time `json:"saved_at"`
}
