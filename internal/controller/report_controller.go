package controller

import (
	"survey-bot-be/internal/dto"
	"survey-bot-be/internal/pkg/serverutils"
	"survey-bot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	GetSegments(ctx *fiber.Ctx) error
	GetSegmentSummary(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Get("/segments", c.GetSegments)
	h.Get("/summary", c.GetSegmentSummary)
}

func (c *reportController) GetSegments(ctx *fiber.Ctx) error {
	res, err := c.service.GetSegments(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get segments", res))
}

func (c *reportController) GetSegmentSummary(ctx *fiber.Ctx) error {
	req := dto.SegmentSummaryRequest{
		Segment: ctx.Query("segment"),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetSegmentSummary(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get segment summary", res))
}
