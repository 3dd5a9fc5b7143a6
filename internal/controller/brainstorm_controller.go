package controller

import (
	"mindforge-be/internal/dto"
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/internal/service"
	"mindforge-be/pkg/brainstorm/pipeline"

	"github.com/gofiber/fiber/v2"
)

type IBrainstormController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type brainstormController struct {
	service service.IBrainstormService
}

func NewBrainstormController(service service.IBrainstormService) IBrainstormController {
	return &brainstormController{service: service}
}

func (c *brainstormController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/brainstorm")
	h.Post(":id/message", c.SendMessage)
	h.Get(":id/history", c.History)
}

func turnFrame(ev pipeline.Event) (string, interface{}) {
	return ev.Name, ev.Payload
}

// SendMessage streams the turn as server-sent events.
func (c *brainstormController) SendMessage(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "Session")
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	runCtx, cancel := streamContext(ctx)
	events, err := c.service.SendMessage(runCtx, id, &req)
	if err != nil {
		cancel()
		return err
	}
	return serverutils.StreamSSE(ctx, events, turnFrame, cancel)
}

func (c *brainstormController) History(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "Session")
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}
