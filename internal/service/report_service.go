package service

import (
	"context"

	"survey-bot-be/internal/dto"
	"survey-bot-be/internal/repository/specification"
	"survey-bot-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
)

type IReportService interface {
	GetSegments(ctx context.Context) ([]*dto.SegmentResponse, error)
	GetSegmentSummary(ctx context.Context, request *dto.SegmentSummaryRequest) (*dto.SegmentSummaryResponse, error)
}

// reportService backs the REST reporting surface with the same finalized
// rows the bot's report menu reads.
type reportService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReportService(uowFactory unitofwork.RepositoryFactory) IReportService {
	return &reportService{uowFactory: uowFactory}
}

func (s *reportService) GetSegments(ctx context.Context) ([]*dto.SegmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	segments, err := uow.SegmentRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SegmentResponse, 0, len(segments))
	for _, segment := range segments {
		response = append(response, &dto.SegmentResponse{
			Id:   segment.Id,
			Name: segment.Name,
		})
	}
	return response, nil
}

func (s *reportService) GetSegmentSummary(ctx context.Context, request *dto.SegmentSummaryRequest) (*dto.SegmentSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	segment, err := uow.SegmentRepository().FindOne(ctx, specification.ByName{Name: request.Segment})
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "segment not found")
	}

	reports, err := uow.SurveyReportRepository().FindAll(ctx,
		specification.BySegment{Segment: request.Segment},
		specification.Finalized{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	response := &dto.SegmentSummaryResponse{
		Segment: segment.Name,
		Lines:   make([]dto.ReportLineResponse, 0, len(reports)),
	}
	for _, report := range reports {
		response.Lines = append(response.Lines, dto.ReportLineResponse{
			Designator:    report.Designator,
			MaterialValue: report.MaterialValue,
			ServiceValue:  report.ServiceValue,
			Total:         report.Total,
		})
		response.TotalValue += report.Total
	}
	return response, nil
}
