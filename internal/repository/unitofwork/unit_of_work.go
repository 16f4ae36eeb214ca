package unitofwork

import (
	"context"

	"survey-bot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SurveyReportRepository() contract.SurveyReportRepository
	SegmentRepository() contract.SegmentRepository
	DesignatorRepository() contract.DesignatorRepository
	SystemLogRepository() contract.SystemLogRepository
}
