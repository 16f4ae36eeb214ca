package service

import (
	"context"
	"fmt"
	"time"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/repository/specification"
	"survey-bot-be/internal/repository/unitofwork"
	"survey-bot-be/pkg/survey/flow"

	"github.com/google/uuid"
)

// draftStore adapts the survey report repository to the flow engine's
// persistence contract. Field writes are idempotent; the registry's
// per-session exclusivity means no two writers touch the same draft.
type draftStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDraftStore(uowFactory unitofwork.RepositoryFactory) *draftStore {
	return &draftStore{uowFactory: uowFactory}
}

func (s *draftStore) CreateDraft(ctx context.Context, chatID int64, segment, category, designator, folderPath string) (uuid.UUID, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	report := entity.SurveyReport{
		Id:           uuid.New(),
		ChatID:       chatID,
		Segment:      segment,
		Category:     category,
		Designator:   designator,
		FolderPath:   folderPath,
		EvidenceRefs: []string{},
		CreatedAt:    time.Now(),
	}
	if err := uow.SurveyReportRepository().Create(ctx, &report); err != nil {
		return uuid.Nil, err
	}
	return report.Id, nil
}

func (s *draftStore) loadDraft(ctx context.Context, uow unitofwork.UnitOfWork, draftID uuid.UUID) (*entity.SurveyReport, error) {
	report, err := uow.SurveyReportRepository().FindOne(ctx, specification.ByID{ID: draftID})
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("draft %s not found", draftID)
	}
	return report, nil
}

func (s *draftStore) AppendEvidence(ctx context.Context, draftID uuid.UUID, ref string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := s.loadDraft(ctx, uow, draftID)
	if err != nil {
		return err
	}

	// A webhook retry can hand us a ref we already stored; appending it
	// twice would desync the draft from the session.
	for _, existing := range report.EvidenceRefs {
		if existing == ref {
			return nil
		}
	}

	report.EvidenceRefs = append(report.EvidenceRefs, ref)
	return uow.SurveyReportRepository().Update(ctx, report)
}

func (s *draftStore) SetLocation(ctx context.Context, draftID uuid.UUID, latitude, longitude float64, address string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := s.loadDraft(ctx, uow, draftID)
	if err != nil {
		return err
	}

	report.Latitude = &latitude
	report.Longitude = &longitude
	report.Address = address
	return uow.SurveyReportRepository().Update(ctx, report)
}

func (s *draftStore) SetNote(ctx context.Context, draftID uuid.UUID, note string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := s.loadDraft(ctx, uow, draftID)
	if err != nil {
		return err
	}

	report.Note = note
	return uow.SurveyReportRepository().Update(ctx, report)
}

func (s *draftStore) Finalize(ctx context.Context, draftID uuid.UUID, materialValue, serviceValue float64) (float64, bool, error) {
	total := materialValue + serviceValue
	uow := s.uowFactory.NewUnitOfWork(ctx)

	updated, err := uow.SurveyReportRepository().FinalizeOnce(ctx, draftID, materialValue, serviceValue, total, time.Now())
	if err != nil {
		return 0, false, err
	}
	return total, !updated, nil
}

// SegmentSummary lists finalized report lines for one segment, oldest first.
func (s *draftStore) SegmentSummary(ctx context.Context, segment string) ([]flow.ReportLine, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	reports, err := uow.SurveyReportRepository().FindAll(ctx,
		specification.BySegment{Segment: segment},
		specification.Finalized{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	lines := make([]flow.ReportLine, 0, len(reports))
	for _, r := range reports {
		lines = append(lines, flow.ReportLine{
			Designator:    r.Designator,
			MaterialValue: r.MaterialValue,
			ServiceValue:  r.ServiceValue,
			Total:         r.Total,
		})
	}
	return lines, nil
}
