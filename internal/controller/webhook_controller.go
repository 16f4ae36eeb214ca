package controller

import (
	"survey-bot-be/internal/service"
	"survey-bot-be/pkg/telegram"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Handle(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IBotService
}

func NewWebhookController(service service.IBotService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Post("", c.Handle)
}

func (c *webhookController) Handle(ctx *fiber.Ctx) error {
	var update telegram.Update
	if err := ctx.BodyParser(&update); err != nil {
		// Malformed envelope; 200 so Telegram does not redeliver garbage.
		return ctx.SendString("OK")
	}

	if err := c.service.ProcessUpdate(ctx.Context(), &update); err != nil {
		return err
	}

	return ctx.SendString("OK")
}
