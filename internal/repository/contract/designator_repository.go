package contract

import (
	"context"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/repository/specification"
)

type DesignatorRepository interface {
	Create(ctx context.Context, designator *entity.Designator) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Designator, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Designator, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ListCategories returns the distinct non-empty categories.
	ListCategories(ctx context.Context) ([]string, error)
}
