package mapper

import (
	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/model"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) SegmentToEntity(s *model.Segment) *entity.Segment {
	if s == nil {
		return nil
	}
	return &entity.Segment{
		Id:        s.Id,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

func (m *CatalogMapper) SegmentsToEntities(models []*model.Segment) []*entity.Segment {
	entities := make([]*entity.Segment, 0, len(models))
	for _, s := range models {
		entities = append(entities, m.SegmentToEntity(s))
	}
	return entities
}

func (m *CatalogMapper) DesignatorToEntity(d *model.Designator) *entity.Designator {
	if d == nil {
		return nil
	}
	return &entity.Designator{
		Id:            d.Id,
		Code:          d.Code,
		Category:      d.Category,
		Description:   d.Description,
		Unit:          d.Unit,
		MaterialValue: d.MaterialValue,
		ServiceValue:  d.ServiceValue,
		CreatedAt:     d.CreatedAt,
	}
}

func (m *CatalogMapper) DesignatorsToEntities(models []*model.Designator) []*entity.Designator {
	entities := make([]*entity.Designator, 0, len(models))
	for _, d := range models {
		entities = append(entities, m.DesignatorToEntity(d))
	}
	return entities
}
