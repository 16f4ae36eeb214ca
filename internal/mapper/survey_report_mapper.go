package mapper

import (
	"encoding/json"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/model"

	"gorm.io/datatypes"
)

type SurveyReportMapper struct{}

func NewSurveyReportMapper() *SurveyReportMapper {
	return &SurveyReportMapper{}
}

func (m *SurveyReportMapper) ToEntity(r *model.SurveyReport) *entity.SurveyReport {
	if r == nil {
		return nil
	}

	refs := make([]string, 0)
	if len(r.EvidenceRefs) > 0 {
		// A malformed jsonb value degrades to an empty list rather than
		// failing the read.
		_ = json.Unmarshal(r.EvidenceRefs, &refs)
	}

	return &entity.SurveyReport{
		Id:            r.Id,
		ChatID:        r.ChatID,
		Segment:       r.Segment,
		Category:      r.Category,
		Designator:    r.Designator,
		FolderPath:    r.FolderPath,
		EvidenceRefs:  refs,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Address:       r.Address,
		Note:          r.Note,
		MaterialValue: r.MaterialValue,
		ServiceValue:  r.ServiceValue,
		Total:         r.Total,
		CreatedAt:     r.CreatedAt,
		FinalizedAt:   r.FinalizedAt,
	}
}

func (m *SurveyReportMapper) ToModel(r *entity.SurveyReport) *model.SurveyReport {
	if r == nil {
		return nil
	}

	refs := r.EvidenceRefs
	if refs == nil {
		refs = []string{}
	}
	refsJSON, _ := json.Marshal(refs)

	return &model.SurveyReport{
		Id:            r.Id,
		ChatID:        r.ChatID,
		Segment:       r.Segment,
		Category:      r.Category,
		Designator:    r.Designator,
		FolderPath:    r.FolderPath,
		EvidenceRefs:  datatypes.JSON(refsJSON),
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Address:       r.Address,
		Note:          r.Note,
		MaterialValue: r.MaterialValue,
		ServiceValue:  r.ServiceValue,
		Total:         r.Total,
		CreatedAt:     r.CreatedAt,
		FinalizedAt:   r.FinalizedAt,
	}
}

func (m *SurveyReportMapper) ToEntities(models []*model.SurveyReport) []*entity.SurveyReport {
	entities := make([]*entity.SurveyReport, 0, len(models))
	for _, r := range models {
		entities = append(entities, m.ToEntity(r))
	}
	return entities
}
