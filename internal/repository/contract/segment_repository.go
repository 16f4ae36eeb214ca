package contract

import (
	"context"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/repository/specification"
)

type SegmentRepository interface {
	Create(ctx context.Context, segment *entity.Segment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Segment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Segment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
