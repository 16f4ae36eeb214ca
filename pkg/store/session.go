package store

import (
	"github.com/google/uuid"
)

// LatLng is a coordinate pair shared by the user.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Session represents the active conversation state in memory.
// One Session per chat; the registry guarantees single-writer access.
type Session struct {
	ID     string `json:"id"` // stable per chat
	ChatID int64  `json:"chat_id"`
	State  string `json:"state"`

	// Classification, set in order. Empty until chosen.
	Segment    string `json:"segment"`
	Category   string `json:"category"`
	Designator string `json:"designator"`

	// DraftID is non-nil iff the session reached evidence collection.
	DraftID    *uuid.UUID `json:"draft_id"`
	FolderPath string     `json:"folder_path"`

	// EvidenceRefs is append-only until the session terminates.
	EvidenceRefs []string `json:"evidence_refs"`

	Location *LatLng `json:"location"`
	Address  string  `json:"address"`
	Note     string  `json:"note"`
}

const (
	StateIdle                = "IDLE"
	StateSegmentSelection    = "SEGMENT_SELECTION"
	StateCategorySelection   = "CATEGORY_SELECTION"
	StateDesignatorSelection = "DESIGNATOR_SELECTION"
	StateEvidenceCollection  = "EVIDENCE_COLLECTION"
	StateLocationCapture     = "LOCATION_CAPTURE"
	StateAnnotationCapture   = "ANNOTATION_CAPTURE"
	StateConfirmPending      = "CONFIRM_PENDING"
)
