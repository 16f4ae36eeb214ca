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

type DesignatorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewDesignatorRepository(db *gorm.DB) contract.DesignatorRepository {
	return &DesignatorRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *DesignatorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DesignatorRepositoryImpl) Create(ctx context.Context, designator *entity.Designator) error {
	m := &model.Designator{
		Id:            designator.Id,
		Code:          designator.Code,
		Category:      designator.Category,
		Description:   designator.Description,
		Unit:          designator.Unit,
		MaterialValue: designator.MaterialValue,
		ServiceValue:  designator.ServiceValue,
		CreatedAt:     designator.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*designator = *r.mapper.DesignatorToEntity(m)
	return nil
}

func (r *DesignatorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Designator, error) {
	var m model.Designator
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DesignatorToEntity(&m), nil
}

func (r *DesignatorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Designator, error) {
	var models []*model.Designator
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.DesignatorsToEntities(models), nil
}

func (r *DesignatorRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Designator{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DesignatorRepositoryImpl) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&model.Designator{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
