package implementation

import (
	"context"
	"encoding/json"

	"survey-bot-be/internal/model"
	"survey-bot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SystemLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) contract.SystemLogRepository {
	return &SystemLogRepositoryImpl{db: db}
}

func (r *SystemLogRepositoryImpl) Create(ctx context.Context, level, module, message string, details map[string]interface{}) error {
	var detailsJSON *string
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			s := string(raw)
			detailsJSON = &s
		}
	}

	entry := &model.SystemLog{
		Id:      uuid.New(),
		Level:   level,
		Module:  &module,
		Message: message,
		Details: detailsJSON,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}
