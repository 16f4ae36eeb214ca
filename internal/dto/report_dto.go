package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishReportFinalizedMessage is the queue payload emitted when a survey
// report is finalized. The consumer writes the audit row and forwards the
// event to JetStream from it, so it carries everything those sinks need.
type PublishReportFinalizedMessage struct {
	ReportId      uuid.UUID `json:"report_id"`
	ChatId        int64     `json:"chat_id"`
	Segment       string    `json:"segment"`
	Category      string    `json:"category"`
	Designator    string    `json:"designator"`
	EvidenceCount int       `json:"evidence_count"`
	Total         float64   `json:"total"`
	FinalizedAt   time.Time `json:"finalized_at"`
}

type SegmentResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SegmentSummaryRequest struct {
	Segment string `json:"segment" validate:"required"`
}

type ReportLineResponse struct {
	Designator    string  `json:"designator"`
	MaterialValue float64 `json:"material_value"`
	ServiceValue  float64 `json:"service_value"`
	Total         float64 `json:"total"`
}

type SegmentSummaryResponse struct {
	Segment    string               `json:"segment"`
	TotalValue float64              `json:"total_value"`
	Lines      []ReportLineResponse `json:"lines"`
}
