package entity

import (
	"time"

	"github.com/google/uuid"
)

// SurveyReport is one submission record. Created as a draft when the user
// completes classification, mutated incrementally, immutable once finalized.
type SurveyReport struct {
	Id           uuid.UUID
	ChatID       int64
	Segment      string
	Category     string
	Designator   string
	FolderPath   string
	EvidenceRefs []string
	Latitude     *float64
	Longitude    *float64
	Address      string
	Note         string

	MaterialValue float64
	ServiceValue  float64
	Total         float64

	CreatedAt   time.Time
	FinalizedAt *time.Time
}

func (r *SurveyReport) IsFinalized() bool {
	return r.FinalizedAt != nil
}
