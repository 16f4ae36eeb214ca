package implementation

import (
	"context"
	"errors"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/mapper"
	"survey-bot-be/internal/model"
	"survey-bot-be/internal/repository/contract"
	"survey-bot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SegmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewSegmentRepository(db *gorm.DB) contract.SegmentRepository {
	return &SegmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *SegmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SegmentRepositoryImpl) Create(ctx context.Context, segment *entity.Segment) error {
	m := &model.Segment{
		Id:        segment.Id,
		Name:      segment.Name,
		CreatedAt: segment.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*segment = *r.mapper.SegmentToEntity(m)
	return nil
}

func (r *SegmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Segment, error) {
	var m model.Segment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SegmentToEntity(&m), nil
}

func (r *SegmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Segment, error) {
	var models []*model.Segment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SegmentsToEntities(models), nil
}

func (r *SegmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Segment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
