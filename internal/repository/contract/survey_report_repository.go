package contract

import (
	"context"
	"time"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SurveyReportRepository interface {
	Create(ctx context.Context, report *entity.SurveyReport) error
	Update(ctx context.Context, report *entity.SurveyReport) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SurveyReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SurveyReport, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FinalizeOnce freezes the value fields iff the report is not yet
	// finalized. Returns false when another finalize won the race.
	FinalizeOnce(ctx context.Context, id uuid.UUID, materialValue, serviceValue, total float64, finalizedAt time.Time) (bool, error)
}
