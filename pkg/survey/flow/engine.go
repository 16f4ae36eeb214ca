package flow

import (
	"context"
	"fmt"
	"strings"

	"survey-bot-be/internal/constant"
	"survey-bot-be/internal/pkg/logger"
	"survey-bot-be/pkg/store"
	"survey-bot-be/pkg/survey/prompt"

	"github.com/google/uuid"
)

// FinalizedReport summarizes one successfully finalized draft. The bot
// service publishes it for the audit/analytics consumers.
type FinalizedReport struct {
	DraftID       uuid.UUID
	ChatID        int64
	Segment       string
	Category      string
	Designator    string
	EvidenceCount int
	MaterialValue float64
	ServiceValue  float64
	Total         float64
}

// Result is the outcome of one transition. Terminal means the session must be
// removed from the registry after the prompts are delivered.
type Result struct {
	Prompts   []prompt.Prompt
	Terminal  bool
	Finalized *FinalizedReport
}

func reply(p prompt.Prompt) Result {
	return Result{Prompts: []prompt.Prompt{p}}
}

// Engine is the conversation state machine. It mutates exactly one session
// per call and assumes the caller holds that session's registry lock for the
// whole transition, external calls included.
type Engine struct {
	catalog  CatalogGateway
	drafts   DraftStore
	reports  ReportReader
	evidence EvidenceUploader
	geocoder Geocoder
	log      logger.ILogger
}

func NewEngine(
	catalog CatalogGateway,
	drafts DraftStore,
	reports ReportReader,
	evidence EvidenceUploader,
	geocoder Geocoder,
	log logger.ILogger,
) *Engine {
	return &Engine{
		catalog:  catalog,
		drafts:   drafts,
		reports:  reports,
		evidence: evidence,
		geocoder: geocoder,
		log:      log,
	}
}

// Handle applies one event to the session and returns the prompts to send.
// An event that matches no valid transition yields a guidance prompt and
// leaves both session and draft untouched.
func (e *Engine) Handle(ctx context.Context, sess *store.Session, ev Event) Result {
	// /start restarts the flow from anywhere. An in-progress draft is left
	// abandoned, same as cancel.
	if ev.Kind == EventStart {
		return e.handleStart(ctx, sess)
	}

	// Read-only menus are state-independent: they never touch the draft and
	// are safe mid-conversation.
	if ev.Kind == EventChoice {
		kind, value, err := prompt.DecodeToken(ev.Token)
		if err != nil {
			e.log.Warn("flow", "Undecodable choice token", map[string]interface{}{
				"session_id": sess.ID,
				"token":      ev.Token,
			})
			return reply(prompt.Text(constant.MsgSessionNotActive))
		}
		switch kind {
		case prompt.KindReportMenu:
			return e.handleReportMenu(ctx)
		case prompt.KindReportSegment:
			return e.handleReportSegment(ctx, value)
		case prompt.KindInfoMenu:
			return e.handleInfoMenu(ctx)
		case prompt.KindInfoCategory:
			return e.handleInfoCategory(ctx, value)
		case prompt.KindInfoDesignator:
			return e.handleInfoDesignator(ctx, value)
		}
	}

	switch sess.State {
	case store.StateSegmentSelection:
		return e.handleSegmentSelection(ctx, sess, ev)
	case store.StateCategorySelection:
		return e.handleCategorySelection(ctx, sess, ev)
	case store.StateDesignatorSelection:
		return e.handleDesignatorSelection(ctx, sess, ev)
	case store.StateEvidenceCollection:
		return e.handleEvidenceCollection(ctx, sess, ev)
	case store.StateLocationCapture:
		return e.handleLocationCapture(ctx, sess, ev)
	case store.StateAnnotationCapture:
		return e.handleAnnotationCapture(ctx, sess, ev)
	case store.StateConfirmPending:
		return e.handleConfirmPending(ctx, sess, ev)
	default: // StateIdle
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
}

// --- flow states ---

func (e *Engine) handleStart(ctx context.Context, sess *store.Session) Result {
	segments, err := e.catalog.ListSegments(ctx)
	if err != nil || len(segments) == 0 {
		e.logCatalogError(sess.ID, "list segments", err)
		return reply(prompt.Text(constant.MsgCatalogDown))
	}

	// Reset in place; any previous draft stays orphaned in the store.
	*sess = store.Session{ID: sess.ID, ChatID: sess.ChatID, State: store.StateSegmentSelection}

	p := prompt.Text(constant.MsgWelcome)
	p.Choices = prompt.SingleColumn(segments, func(label string) string {
		return prompt.EncodeToken(prompt.KindSegment, label)
	})
	p = p.WithRow(
		prompt.Choice{Label: constant.BtnReport, Token: prompt.EncodeToken(prompt.KindReportMenu, "")},
		prompt.Choice{Label: constant.BtnInfo, Token: prompt.EncodeToken(prompt.KindInfoMenu, "")},
	)
	return reply(p)
}

func (e *Engine) handleSegmentSelection(ctx context.Context, sess *store.Session, ev Event) Result {
	kind, value, ok := e.decode(ev)
	if !ok || kind != prompt.KindSegment {
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
	sess.Segment = value
	return e.promptCategories(ctx, sess)
}

func (e *Engine) handleCategorySelection(ctx context.Context, sess *store.Session, ev Event) Result {
	kind, value, ok := e.decode(ev)
	if !ok {
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
	switch kind {
	case prompt.KindSegment:
		// Replayed or changed segment selection. No draft exists yet, so
		// accepting it is harmless; the same choice just re-issues the
		// category prompt.
		sess.Segment = value
		return e.promptCategories(ctx, sess)
	case prompt.KindCategory:
		sess.Category = value
		return e.promptDesignators(ctx, sess)
	default:
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
}

func (e *Engine) handleDesignatorSelection(ctx context.Context, sess *store.Session, ev Event) Result {
	kind, value, ok := e.decode(ev)
	if !ok {
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
	switch kind {
	case prompt.KindCategory:
		sess.Category = value
		return e.promptDesignators(ctx, sess)
	case prompt.KindDesignator:
		return e.createDraft(ctx, sess, value)
	default:
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
}

func (e *Engine) createDraft(ctx context.Context, sess *store.Session, designator string) Result {
	// Draft creation happens exactly once, on first entry to evidence
	// collection. A replayed designator selection lands in
	// handleEvidenceCollection instead because the state moved on.
	if sess.DraftID != nil {
		return reply(prompt.Text(constant.MsgSendEvidence))
	}

	folderPath := fmt.Sprintf("%s/%s", sess.Segment, designator)
	draftID, err := e.drafts.CreateDraft(ctx, sess.ChatID, sess.Segment, sess.Category, designator, folderPath)
	if err != nil {
		e.log.Error("flow", "Failed to create draft", map[string]interface{}{
			"session_id": sess.ID,
			"designator": designator,
			"error":      err.Error(),
		})
		return reply(prompt.Text(constant.MsgSaveFailed))
	}

	sess.Designator = designator
	sess.DraftID = &draftID
	sess.FolderPath = folderPath
	sess.State = store.StateEvidenceCollection

	e.log.Info("flow", "Draft created", map[string]interface{}{
		"session_id": sess.ID,
		"draft_id":   draftID.String(),
		"designator": designator,
	})
	return reply(e.evidencePrompt(constant.MsgSendEvidence))
}

func (e *Engine) handleEvidenceCollection(ctx context.Context, sess *store.Session, ev Event) Result {
	switch ev.Kind {
	case EventPhoto:
		return e.collectPhoto(ctx, sess, ev.FileID)
	case EventChoice:
		kind, value, _ := e.decode(ev)
		switch kind {
		case prompt.KindDesignator:
			if value == sess.Designator {
				// Replayed designator selection after the draft exists.
				return reply(e.evidencePrompt(constant.MsgSendEvidence))
			}
			return reply(prompt.Text(constant.MsgSessionNotActive))
		case prompt.KindDone:
			return e.closeEvidence(sess)
		}
		return reply(prompt.Text(constant.MsgSessionNotActive))
	case EventText:
		if isDoneText(ev.Text) {
			return e.closeEvidence(sess)
		}
		return reply(prompt.Text(constant.MsgSessionNotActive))
	default:
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
}

func (e *Engine) collectPhoto(ctx context.Context, sess *store.Session, fileID string) Result {
	ref, err := e.evidence.Collect(ctx, sess.FolderPath, fileID)
	if err != nil {
		e.log.Error("flow", "Evidence upload failed", map[string]interface{}{
			"session_id": sess.ID,
			"file_id":    fileID,
			"error":      err.Error(),
		})
		return reply(prompt.Text(constant.MsgUploadFailed))
	}

	if err := e.drafts.AppendEvidence(ctx, *sess.DraftID, ref); err != nil {
		// The blob is uploaded but the draft row was not updated. Keep the
		// session untouched so refs stay in sync with the draft; the user
		// retries and the orphaned object is harmless.
		e.log.Error("flow", "Failed to persist evidence ref", map[string]interface{}{
			"session_id": sess.ID,
			"ref":        ref,
			"error":      err.Error(),
		})
		return reply(prompt.Text(constant.MsgUploadFailed))
	}

	sess.EvidenceRefs = append(sess.EvidenceRefs, ref)
	return reply(e.evidencePrompt(fmt.Sprintf(constant.MsgEvidenceSaved, len(sess.EvidenceRefs))))
}

func (e *Engine) closeEvidence(sess *store.Session) Result {
	if len(sess.EvidenceRefs) == 0 {
		return reply(e.evidencePrompt(constant.MsgNeedEvidence))
	}
	sess.State = store.StateLocationCapture
	return reply(prompt.Text(constant.MsgShareLocation))
}

func (e *Engine) handleLocationCapture(ctx context.Context, sess *store.Session, ev Event) Result {
	if ev.Kind != EventLocation || ev.Location == nil {
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}

	address := ""
	if e.geocoder != nil {
		if resolved, err := e.geocoder.ReverseGeocode(ctx, ev.Location.Latitude, ev.Location.Longitude); err == nil {
			address = resolved
		}
	}

	if err := e.drafts.SetLocation(ctx, *sess.DraftID, ev.Location.Latitude, ev.Location.Longitude, address); err != nil {
		e.log.Error("flow", "Failed to persist location", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		return reply(prompt.Text(constant.MsgSaveFailed))
	}

	sess.Location = ev.Location
	sess.Address = address
	sess.State = store.StateAnnotationCapture
	return reply(prompt.Text(constant.MsgWriteNote))
}

func (e *Engine) handleAnnotationCapture(ctx context.Context, sess *store.Session, ev Event) Result {
	if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}

	note := strings.TrimSpace(ev.Text)
	if err := e.drafts.SetNote(ctx, *sess.DraftID, note); err != nil {
		e.log.Error("flow", "Failed to persist note", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		return reply(prompt.Text(constant.MsgSaveFailed))
	}

	sess.Note = note
	sess.State = store.StateConfirmPending
	return reply(e.summaryPrompt(sess))
}

func (e *Engine) handleConfirmPending(ctx context.Context, sess *store.Session, ev Event) Result {
	if ev.Kind == EventText {
		// Stray text while the summary is up: show it again.
		return reply(e.summaryPrompt(sess))
	}

	kind, _, ok := e.decode(ev)
	if !ok {
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
	switch kind {
	case prompt.KindConfirm:
		return e.finalize(ctx, sess)
	case prompt.KindCancel:
		e.log.Info("flow", "Report cancelled", map[string]interface{}{
			"session_id": sess.ID,
			"draft_id":   sess.DraftID.String(),
		})
		// The draft row is retained as an abandoned draft for later cleanup.
		return Result{Prompts: []prompt.Prompt{prompt.Text(constant.MsgCancelled)}, Terminal: true}
	default:
		return reply(prompt.Text(constant.MsgSessionNotActive))
	}
}

func (e *Engine) finalize(ctx context.Context, sess *store.Session) Result {
	// Values are priced at finalize time from a fresh catalog lookup, so a
	// catalog change during the conversation is honored.
	info, err := e.catalog.GetDesignator(ctx, sess.Designator)
	if err != nil || info == nil {
		e.logCatalogError(sess.ID, "designator lookup at finalize", err)
		return reply(prompt.Text(constant.MsgDesignatorGone))
	}

	total, already, err := e.drafts.Finalize(ctx, *sess.DraftID, info.MaterialValue, info.ServiceValue)
	if err != nil {
		e.log.Error("flow", "Finalize failed", map[string]interface{}{
			"session_id": sess.ID,
			"draft_id":   sess.DraftID.String(),
			"error":      err.Error(),
		})
		return reply(prompt.Text(constant.MsgSaveFailed))
	}
	if already {
		return Result{Prompts: []prompt.Prompt{prompt.Text(constant.MsgAlreadySubmitted)}, Terminal: true}
	}

	e.log.Info("flow", "Report finalized", map[string]interface{}{
		"session_id": sess.ID,
		"draft_id":   sess.DraftID.String(),
		"total":      total,
	})

	return Result{
		Prompts:  []prompt.Prompt{prompt.Text(fmt.Sprintf(constant.MsgSubmitted, FormatRupiah(total)))},
		Terminal: true,
		Finalized: &FinalizedReport{
			DraftID:       *sess.DraftID,
			ChatID:        sess.ChatID,
			Segment:       sess.Segment,
			Category:      sess.Category,
			Designator:    sess.Designator,
			EvidenceCount: len(sess.EvidenceRefs),
			MaterialValue: info.MaterialValue,
			ServiceValue:  info.ServiceValue,
			Total:         total,
		},
	}
}

// --- read-only menus ---

func (e *Engine) handleReportMenu(ctx context.Context) Result {
	segments, err := e.catalog.ListSegments(ctx)
	if err != nil || len(segments) == 0 {
		e.logCatalogError("", "list segments for report menu", err)
		return reply(prompt.Text(constant.MsgCatalogDown))
	}
	p := prompt.Text(constant.MsgReportPickSegment)
	p.Choices = prompt.SingleColumn(segments, func(label string) string {
		return prompt.EncodeToken(prompt.KindReportSegment, label)
	})
	return reply(p)
}

func (e *Engine) handleReportSegment(ctx context.Context, segment string) Result {
	lines, err := e.reports.SegmentSummary(ctx, segment)
	if err != nil {
		e.log.Error("flow", "Report summary failed", map[string]interface{}{
			"segment": segment,
			"error":   err.Error(),
		})
		return reply(prompt.Text(constant.MsgSaveFailed))
	}
	if len(lines) == 0 {
		return reply(prompt.Text(constant.MsgReportEmpty))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *REPORT*\n%s\n\n", strings.ToUpper(segment))
	for _, line := range lines {
		fmt.Fprintf(&b, "🔧 *%s*\n📦 Material: %s\n🧰 Service: %s\n💰 Total: *%s*\n\n",
			line.Designator,
			FormatRupiah(line.MaterialValue),
			FormatRupiah(line.ServiceValue),
			FormatRupiah(line.Total),
		)
	}
	return reply(prompt.Text(strings.TrimRight(b.String(), "\n")))
}

func (e *Engine) handleInfoMenu(ctx context.Context) Result {
	categories, err := e.catalog.ListCategories(ctx, "")
	if err != nil || len(categories) == 0 {
		e.logCatalogError("", "list categories for info menu", err)
		return reply(prompt.Text(constant.MsgCatalogDown))
	}
	p := prompt.Text(constant.MsgInfoPickCategory)
	p.Choices = prompt.SingleColumn(categories, func(label string) string {
		return prompt.EncodeToken(prompt.KindInfoCategory, label)
	})
	return reply(p)
}

func (e *Engine) handleInfoCategory(ctx context.Context, category string) Result {
	designators, err := e.catalog.ListDesignators(ctx, category)
	if err != nil || len(designators) == 0 {
		e.logCatalogError("", "list designators for info menu", err)
		return reply(prompt.Text(constant.MsgCatalogDown))
	}
	p := prompt.Text(fmt.Sprintf(constant.MsgInfoPickDesignator, category))
	p.Choices = prompt.SingleColumn(designators, func(label string) string {
		return prompt.EncodeToken(prompt.KindInfoDesignator, label)
	})
	return reply(p)
}

func (e *Engine) handleInfoDesignator(ctx context.Context, code string) Result {
	info, err := e.catalog.GetDesignator(ctx, code)
	if err != nil {
		e.logCatalogError("", "designator detail", err)
		return reply(prompt.Text(constant.MsgCatalogDown))
	}
	if info == nil {
		return reply(prompt.Text(constant.MsgInfoNotFound))
	}

	text := fmt.Sprintf(
		"📘 *DESIGNATOR DETAIL*\n\n🔧 %s\n📏 Unit: %s\n📝 %s\n📦 Material: %s\n🧰 Service: %s\n💰 Total: *%s*",
		info.Code,
		orDash(info.Unit),
		orDash(info.Description),
		FormatRupiah(info.MaterialValue),
		FormatRupiah(info.ServiceValue),
		FormatRupiah(info.MaterialValue+info.ServiceValue),
	)
	return reply(prompt.Text(text))
}

// --- helpers ---

func (e *Engine) promptCategories(ctx context.Context, sess *store.Session) Result {
	categories, err := e.catalog.ListCategories(ctx, sess.Segment)
	if err != nil || len(categories) == 0 {
		e.logCatalogError(sess.ID, "list categories", err)
		return reply(prompt.Text(constant.MsgCatalogDown))
	}
	sess.State = store.StateCategorySelection

	p := prompt.Text(fmt.Sprintf(constant.MsgPickCategory, sess.Segment))
	p.Choices = prompt.SingleColumn(categories, func(label string) string {
		return prompt.EncodeToken(prompt.KindCategory, label)
	})
	return reply(p)
}

func (e *Engine) promptDesignators(ctx context.Context, sess *store.Session) Result {
	designators, err := e.catalog.ListDesignators(ctx, sess.Category)
	if err != nil || len(designators) == 0 {
		e.logCatalogError(sess.ID, "list designators", err)
		return reply(prompt.Text(constant.MsgCatalogDown))
	}
	sess.State = store.StateDesignatorSelection

	p := prompt.Text(fmt.Sprintf(constant.MsgPickDesignator, sess.Category))
	p.Choices = prompt.SingleColumn(designators, func(label string) string {
		return prompt.EncodeToken(prompt.KindDesignator, label)
	})
	return reply(p)
}

func (e *Engine) evidencePrompt(text string) prompt.Prompt {
	return prompt.Text(text).WithRow(prompt.Choice{
		Label: constant.BtnDone,
		Token: prompt.EncodeToken(prompt.KindDone, ""),
	})
}

func (e *Engine) summaryPrompt(sess *store.Session) prompt.Prompt {
	text := fmt.Sprintf(constant.MsgSummary,
		sess.Designator,
		sess.Segment,
		sess.Category,
		len(sess.EvidenceRefs),
		sess.Location.Latitude,
		sess.Location.Longitude,
		sess.Note,
	)
	return prompt.Text(text).WithRow(
		prompt.Choice{Label: constant.BtnConfirm, Token: prompt.EncodeToken(prompt.KindConfirm, "")},
		prompt.Choice{Label: constant.BtnCancel, Token: prompt.EncodeToken(prompt.KindCancel, "")},
	)
}

func (e *Engine) decode(ev Event) (prompt.Kind, string, bool) {
	if ev.Kind != EventChoice {
		return "", "", false
	}
	kind, value, err := prompt.DecodeToken(ev.Token)
	if err != nil {
		return "", "", false
	}
	return kind, value, true
}

func (e *Engine) logCatalogError(sessionID, operation string, err error) {
	details := map[string]interface{}{"operation": operation}
	if sessionID != "" {
		details["session_id"] = sessionID
	}
	if err != nil {
		details["error"] = err.Error()
	}
	e.log.Warn("flow", "Catalog lookup failed or empty", details)
}

func isDoneText(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "/done", "done", "selesai":
		return true
	}
	return false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
