package implementation

import (
	"context"
	"errors"
	"time"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/mapper"
	"survey-bot-be/internal/model"
	"survey-bot-be/internal/repository/contract"
	"survey-bot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SurveyReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SurveyReportMapper
}

func NewSurveyReportRepository(db *gorm.DB) contract.SurveyReportRepository {
	return &SurveyReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewSurveyReportMapper(),
	}
}

func (r *SurveyReportRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SurveyReportRepositoryImpl) Create(ctx context.Context, report *entity.SurveyReport) error {
	m := r.mapper.ToModel(report)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ToEntity(m)
	return nil
}

func (r *SurveyReportRepositoryImpl) Update(ctx context.Context, report *entity.SurveyReport) error {
	m := r.mapper.ToModel(report)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ToEntity(m)
	return nil
}

func (r *SurveyReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SurveyReport, error) {
	var m model.SurveyReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SurveyReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SurveyReport, error) {
	var models []*model.SurveyReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SurveyReportRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SurveyReport{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SurveyReportRepositoryImpl) FinalizeOnce(ctx context.Context, id uuid.UUID, materialValue, serviceValue, total float64, finalizedAt time.Time) (bool, error) {
	// Conditional update: the WHERE clause makes a second finalize a no-op
	// instead of overwriting the frozen values.
	result := r.db.WithContext(ctx).
		Model(&model.SurveyReport{}).
		Where("id = ? AND finalized_at IS NULL", id).
		Updates(map[string]interface{}{
			"material_value": materialValue,
			"service_value":  serviceValue,
			"total":          total,
			"finalized_at":   finalizedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
