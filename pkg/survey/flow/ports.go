package flow

import (
	"context"

	"github.com/google/uuid"
)

// DesignatorInfo carries one catalog designator with its unit values.
type DesignatorInfo struct {
	Code          string
	Category      string
	Description   string
	Unit          string
	MaterialValue float64
	ServiceValue  float64
}

// CatalogGateway is the read-only reference-data dependency. List lookups may
// be served from a short-lived cache; GetDesignator must always be fresh
// because finalize prices the report from it.
type CatalogGateway interface {
	ListSegments(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context, segment string) ([]string, error)
	ListDesignators(ctx context.Context, category string) ([]string, error)
	GetDesignator(ctx context.Context, code string) (*DesignatorInfo, error)
}

// DraftStore is the persistence boundary for drafts. Every call is
// independently retryable; overwriting a field with the same value is
// harmless.
type DraftStore interface {
	CreateDraft(ctx context.Context, chatID int64, segment, category, designator, folderPath string) (uuid.UUID, error)
	AppendEvidence(ctx context.Context, draftID uuid.UUID, ref string) error
	SetLocation(ctx context.Context, draftID uuid.UUID, latitude, longitude float64, address string) error
	SetNote(ctx context.Context, draftID uuid.UUID, note string) error
	// Finalize freezes the value fields exactly once. It reports
	// alreadyFinalized instead of an error when the draft was finalized
	// before, so a replayed confirm stays a no-op.
	Finalize(ctx context.Context, draftID uuid.UUID, materialValue, serviceValue float64) (total float64, alreadyFinalized bool, err error)
}

// ReportLine is one designator row in a segment recap.
type ReportLine struct {
	Designator    string
	MaterialValue float64
	ServiceValue  float64
	Total         float64
}

// ReportReader serves the read-only report menu from finalized drafts.
type ReportReader interface {
	SegmentSummary(ctx context.Context, segment string) ([]ReportLine, error)
}

// EvidenceUploader runs the photo pipeline: fetch the binary from the
// transport's content store, upload it under folderPath, return the ref.
type EvidenceUploader interface {
	Collect(ctx context.Context, folderPath, fileID string) (string, error)
}

// Geocoder resolves a coordinate pair to a human-readable address.
// Best-effort; the flow ignores failures.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error)
}
