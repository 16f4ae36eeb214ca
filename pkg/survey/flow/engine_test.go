package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"survey-bot-be/internal/constant"
	"survey-bot-be/pkg/store"
	"survey-bot-be/pkg/survey/prompt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeCatalog struct {
	segments    []string
	categories  []string
	designators map[string][]string
	infos       map[string]*DesignatorInfo
	err         error
}

func (f *fakeCatalog) ListSegments(ctx context.Context) ([]string, error) {
	return f.segments, f.err
}

func (f *fakeCatalog) ListCategories(ctx context.Context, segment string) ([]string, error) {
	return f.categories, f.err
}

func (f *fakeCatalog) ListDesignators(ctx context.Context, category string) ([]string, error) {
	return f.designators[category], f.err
}

func (f *fakeCatalog) GetDesignator(ctx context.Context, code string) (*DesignatorInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.infos[code], nil
}

type fakeDraft struct {
	chatID       int64
	segment      string
	category     string
	designator   string
	folderPath   string
	evidenceRefs []string
	latitude     float64
	longitude    float64
	address      string
	note         string
	finalized    bool
	total        float64
}

type fakeDraftStore struct {
	drafts      map[uuid.UUID]*fakeDraft
	createCalls int

	createErr error
	appendErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: map[uuid.UUID]*fakeDraft{}}
}

func (f *fakeDraftStore) CreateDraft(ctx context.Context, chatID int64, segment, category, designator, folderPath string) (uuid.UUID, error) {
	f.createCalls++
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	id := uuid.New()
	f.drafts[id] = &fakeDraft{
		chatID:     chatID,
		segment:    segment,
		category:   category,
		designator: designator,
		folderPath: folderPath,
	}
	return id, nil
}

func (f *fakeDraftStore) AppendEvidence(ctx context.Context, draftID uuid.UUID, ref string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.drafts[draftID].evidenceRefs = append(f.drafts[draftID].evidenceRefs, ref)
	return nil
}

func (f *fakeDraftStore) SetLocation(ctx context.Context, draftID uuid.UUID, latitude, longitude float64, address string) error {
	d := f.drafts[draftID]
	d.latitude, d.longitude, d.address = latitude, longitude, address
	return nil
}

func (f *fakeDraftStore) SetNote(ctx context.Context, draftID uuid.UUID, note string) error {
	f.drafts[draftID].note = note
	return nil
}

func (f *fakeDraftStore) Finalize(ctx context.Context, draftID uuid.UUID, materialValue, serviceValue float64) (float64, bool, error) {
	d := f.drafts[draftID]
	if d.finalized {
		return d.total, true, nil
	}
	d.finalized = true
	d.total = materialValue + serviceValue
	return d.total, false, nil
}

type fakeReports struct {
	lines map[string][]ReportLine
}

func (f *fakeReports) SegmentSummary(ctx context.Context, segment string) ([]ReportLine, error) {
	return f.lines[segment], nil
}

type fakeEvidence struct {
	collected int
	err       error
}

func (f *fakeEvidence) Collect(ctx context.Context, folderPath, fileID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.collected++
	return fmt.Sprintf("%s/evidence_%d.jpg", folderPath, f.collected), nil
}

type fakeGeocoder struct {
	address string
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error) {
	return f.address, nil
}

// --- harness ---

type harness struct {
	engine   *Engine
	catalog  *fakeCatalog
	drafts   *fakeDraftStore
	evidence *fakeEvidence
	sess     *store.Session
}

func newHarness() *harness {
	catalog := &fakeCatalog{
		segments:   []string{"SEGMENT UTARA", "SEGMENT SELATAN"},
		categories: []string{"KABEL UDARA", "TIANG"},
		designators: map[string][]string{
			"KABEL UDARA": {"DES-AC-OF-SM-24", "DES-AC-OF-SM-48"},
			"TIANG":       {"DES-PU-S7-140"},
		},
		infos: map[string]*DesignatorInfo{
			"DES-AC-OF-SM-24": {Code: "DES-AC-OF-SM-24", Category: "KABEL UDARA", Unit: "meter", MaterialValue: 15000, ServiceValue: 8500},
			"DES-PU-S7-140":   {Code: "DES-PU-S7-140", Category: "TIANG", Unit: "batang", MaterialValue: 1250000, ServiceValue: 450000},
		},
	}
	drafts := newFakeDraftStore()
	ev := &fakeEvidence{}
	reports := &fakeReports{lines: map[string][]ReportLine{}}
	engine := NewEngine(catalog, drafts, reports, ev, &fakeGeocoder{address: "Jl. Merdeka No. 1"}, nopLogger{})

	return &harness{
		engine:   engine,
		catalog:  catalog,
		drafts:   drafts,
		evidence: ev,
		sess:     &store.Session{ID: "42", ChatID: 42, State: store.StateIdle},
	}
}

func (h *harness) handle(ev Event) Result {
	ev.SessionID = h.sess.ID
	ev.ChatID = h.sess.ChatID
	return h.engine.Handle(context.Background(), h.sess, ev)
}

func (h *harness) choose(kind prompt.Kind, value string) Result {
	return h.handle(Event{Kind: EventChoice, Token: prompt.EncodeToken(kind, value)})
}

// --- tests ---

func TestHappyPathEndToEnd(t *testing.T) {
	h := newHarness()

	res := h.handle(Event{Kind: EventStart})
	require.Len(t, res.Prompts, 1)
	assert.Equal(t, store.StateSegmentSelection, h.sess.State)
	assert.Equal(t, constant.MsgWelcome, res.Prompts[0].Text)

	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	assert.Equal(t, store.StateCategorySelection, h.sess.State)

	h.choose(prompt.KindCategory, "KABEL UDARA")
	assert.Equal(t, store.StateDesignatorSelection, h.sess.State)

	res = h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	assert.Equal(t, store.StateEvidenceCollection, h.sess.State)
	require.NotNil(t, h.sess.DraftID)
	assert.Equal(t, "SEGMENT UTARA/DES-AC-OF-SM-24", h.sess.FolderPath)
	assert.Equal(t, constant.MsgSendEvidence, res.Prompts[0].Text)

	h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	h.handle(Event{Kind: EventPhoto, FileID: "file-2"})
	assert.Len(t, h.sess.EvidenceRefs, 2)

	h.choose(prompt.KindDone, "")
	assert.Equal(t, store.StateLocationCapture, h.sess.State)

	h.handle(Event{Kind: EventLocation, Location: &store.LatLng{Latitude: -6.2, Longitude: 106.8}})
	assert.Equal(t, store.StateAnnotationCapture, h.sess.State)
	assert.Equal(t, "Jl. Merdeka No. 1", h.sess.Address)

	h.handle(Event{Kind: EventText, Text: "tarik kabel selesai"})
	assert.Equal(t, store.StateConfirmPending, h.sess.State)

	res = h.choose(prompt.KindConfirm, "")
	assert.True(t, res.Terminal)
	require.NotNil(t, res.Finalized)
	assert.Equal(t, float64(23500), res.Finalized.Total)
	assert.Equal(t, 2, res.Finalized.EvidenceCount)
	assert.Equal(t, "SEGMENT UTARA", res.Finalized.Segment)

	draft := h.drafts.drafts[*h.sess.DraftID]
	assert.True(t, draft.finalized)
	assert.Equal(t, "tarik kabel selesai", draft.note)
	assert.Equal(t, "Jl. Merdeka No. 1", draft.address)
	assert.Len(t, draft.evidenceRefs, 2)
}

func TestDuplicateDesignatorSelectionCreatesOneDraft(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	require.Equal(t, 1, h.drafts.createCalls)

	// Redelivered selection after the state moved on.
	res := h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	assert.Equal(t, 1, h.drafts.createCalls)
	assert.Equal(t, store.StateEvidenceCollection, h.sess.State)
	assert.Equal(t, constant.MsgSendEvidence, res.Prompts[0].Text)

	// A different designator at this point is rejected.
	res = h.choose(prompt.KindDesignator, "DES-AC-OF-SM-48")
	assert.Equal(t, 1, h.drafts.createCalls)
	assert.Equal(t, constant.MsgSessionNotActive, res.Prompts[0].Text)
}

func TestDuplicateSegmentSelectionBeforeDraftIsHarmless(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")

	res := h.choose(prompt.KindSegment, "SEGMENT SELATAN")
	assert.Equal(t, store.StateCategorySelection, h.sess.State)
	assert.Equal(t, "SEGMENT SELATAN", h.sess.Segment)
	assert.Equal(t, 0, h.drafts.createCalls)
	assert.NotEmpty(t, res.Prompts)
}

func TestEvidenceCountNeverAdvancesOnFailure(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")

	h.evidence.err = errors.New("fetch failed")
	res := h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	assert.Equal(t, constant.MsgUploadFailed, res.Prompts[0].Text)
	assert.Empty(t, h.sess.EvidenceRefs)

	// Upload succeeds but the draft write fails: the session ref count must
	// stay a subset of what the draft row holds.
	h.evidence.err = nil
	h.drafts.appendErr = errors.New("db down")
	res = h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	assert.Equal(t, constant.MsgUploadFailed, res.Prompts[0].Text)
	assert.Empty(t, h.sess.EvidenceRefs)

	h.drafts.appendErr = nil
	h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	assert.Len(t, h.sess.EvidenceRefs, 1)
}

func TestDoneRequiresEvidence(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")

	res := h.choose(prompt.KindDone, "")
	assert.Equal(t, constant.MsgNeedEvidence, res.Prompts[0].Text)
	assert.Equal(t, store.StateEvidenceCollection, h.sess.State)

	h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	res = h.handle(Event{Kind: EventText, Text: "selesai"})
	assert.Equal(t, store.StateLocationCapture, h.sess.State)
	assert.Equal(t, constant.MsgShareLocation, res.Prompts[0].Text)
}

func TestReplayedConfirmDoesNotDoubleFinalize(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	h.choose(prompt.KindDone, "")
	h.handle(Event{Kind: EventLocation, Location: &store.LatLng{Latitude: -6.2, Longitude: 106.8}})
	h.handle(Event{Kind: EventText, Text: "ok"})

	first := h.choose(prompt.KindConfirm, "")
	require.NotNil(t, first.Finalized)

	// The confirm redelivered before the terminal session removal landed.
	second := h.choose(prompt.KindConfirm, "")
	assert.True(t, second.Terminal)
	assert.Nil(t, second.Finalized)
	assert.Equal(t, constant.MsgAlreadySubmitted, second.Prompts[0].Text)
}

func TestOutOfPlaceEventsLeaveStateUntouched(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})

	res := h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	assert.Equal(t, constant.MsgSessionNotActive, res.Prompts[0].Text)
	assert.Equal(t, store.StateSegmentSelection, h.sess.State)
	assert.Equal(t, 0, h.drafts.createCalls)

	res = h.handle(Event{Kind: EventLocation, Location: &store.LatLng{Latitude: 1, Longitude: 1}})
	assert.Equal(t, constant.MsgSessionNotActive, res.Prompts[0].Text)
	assert.Equal(t, store.StateSegmentSelection, h.sess.State)
}

func TestStartRestartsMidFlow(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	require.NotNil(t, h.sess.DraftID)

	res := h.handle(Event{Kind: EventStart})
	assert.Equal(t, store.StateSegmentSelection, h.sess.State)
	assert.Nil(t, h.sess.DraftID)
	assert.Empty(t, h.sess.EvidenceRefs)
	assert.Equal(t, constant.MsgWelcome, res.Prompts[0].Text)
}

func TestCancelIsTerminalAndKeepsDraftRow(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	h.choose(prompt.KindDone, "")
	h.handle(Event{Kind: EventLocation, Location: &store.LatLng{Latitude: -6.2, Longitude: 106.8}})
	h.handle(Event{Kind: EventText, Text: "batal saja"})

	res := h.choose(prompt.KindCancel, "")
	assert.True(t, res.Terminal)
	assert.Nil(t, res.Finalized)
	assert.Equal(t, constant.MsgCancelled, res.Prompts[0].Text)

	draft := h.drafts.drafts[*h.sess.DraftID]
	assert.False(t, draft.finalized)
}

func TestReportMenuWorksMidFlow(t *testing.T) {
	h := newHarness()
	h.engine.reports.(*fakeReports).lines["SEGMENT UTARA"] = []ReportLine{
		{Designator: "DES-AC-OF-SM-24", MaterialValue: 15000, ServiceValue: 8500, Total: 23500},
	}

	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")

	res := h.choose(prompt.KindReportMenu, "")
	assert.Equal(t, constant.MsgReportPickSegment, res.Prompts[0].Text)
	assert.Equal(t, store.StateCategorySelection, h.sess.State)

	res = h.choose(prompt.KindReportSegment, "SEGMENT UTARA")
	assert.Contains(t, res.Prompts[0].Text, "DES-AC-OF-SM-24")
	assert.Contains(t, res.Prompts[0].Text, "Rp23.500")
	assert.Equal(t, store.StateCategorySelection, h.sess.State)

	// Flow resumes exactly where it left off.
	res = h.choose(prompt.KindCategory, "TIANG")
	assert.Equal(t, store.StateDesignatorSelection, h.sess.State)
}

func TestInfoMenuShowsDesignatorDetail(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})

	res := h.choose(prompt.KindInfoMenu, "")
	assert.Equal(t, constant.MsgInfoPickCategory, res.Prompts[0].Text)

	res = h.choose(prompt.KindInfoCategory, "TIANG")
	require.Len(t, res.Prompts[0].Choices, 1)

	res = h.choose(prompt.KindInfoDesignator, "DES-PU-S7-140")
	assert.Contains(t, res.Prompts[0].Text, "DES-PU-S7-140")
	assert.Contains(t, res.Prompts[0].Text, "Rp1.700.000")

	res = h.choose(prompt.KindInfoDesignator, "DOES-NOT-EXIST")
	assert.Equal(t, constant.MsgInfoNotFound, res.Prompts[0].Text)
}

func TestCatalogOutageBlocksStart(t *testing.T) {
	h := newHarness()
	h.catalog.err = errors.New("catalog down")

	res := h.handle(Event{Kind: EventStart})
	assert.Equal(t, constant.MsgCatalogDown, res.Prompts[0].Text)
	assert.Equal(t, store.StateIdle, h.sess.State)
}

func TestFinalizePricesFromFreshCatalog(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	h.choose(prompt.KindDone, "")
	h.handle(Event{Kind: EventLocation, Location: &store.LatLng{Latitude: -6.2, Longitude: 106.8}})
	h.handle(Event{Kind: EventText, Text: "ok"})

	// Catalog values changed while the conversation was running.
	h.catalog.infos["DES-AC-OF-SM-24"] = &DesignatorInfo{
		Code: "DES-AC-OF-SM-24", MaterialValue: 20000, ServiceValue: 10000,
	}

	res := h.choose(prompt.KindConfirm, "")
	require.NotNil(t, res.Finalized)
	assert.Equal(t, float64(30000), res.Finalized.Total)
}

func TestFinalizeBlockedWhenDesignatorGone(t *testing.T) {
	h := newHarness()
	h.handle(Event{Kind: EventStart})
	h.choose(prompt.KindSegment, "SEGMENT UTARA")
	h.choose(prompt.KindCategory, "KABEL UDARA")
	h.choose(prompt.KindDesignator, "DES-AC-OF-SM-24")
	h.handle(Event{Kind: EventPhoto, FileID: "file-1"})
	h.choose(prompt.KindDone, "")
	h.handle(Event{Kind: EventLocation, Location: &store.LatLng{Latitude: -6.2, Longitude: 106.8}})
	h.handle(Event{Kind: EventText, Text: "ok"})

	delete(h.catalog.infos, "DES-AC-OF-SM-24")

	res := h.choose(prompt.KindConfirm, "")
	assert.False(t, res.Terminal)
	assert.Nil(t, res.Finalized)
	assert.Equal(t, constant.MsgDesignatorGone, res.Prompts[0].Text)
	assert.Equal(t, store.StateConfirmPending, h.sess.State)
}
