package controller

import (
	"mindforge-be/internal/dto"
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/internal/service"
	"mindforge-be/pkg/competitor"

	"github.com/gofiber/fiber/v2"
)

type ICompetitorController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
}

type competitorController struct {
	service service.ICompetitorService
}

func NewCompetitorController(service service.ICompetitorService) ICompetitorController {
	return &competitorController{service: service}
}

func (c *competitorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/competitor")
	h.Post(":id/analyze", c.Analyze)
	h.Get(":id/analyses", c.GetAll)
}

func analysisFrame(ev competitor.Event) (string, interface{}) {
	return ev.Name, ev.Payload
}

func (c *competitorController) Analyze(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "Session")
	if err != nil {
		return err
	}

	var req dto.AnalyzeCompetitorsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	runCtx, cancel := streamContext(ctx)
	events, err := c.service.Analyze(runCtx, id, &req)
	if err != nil {
		cancel()
		return err
	}
	return serverutils.StreamSSE(ctx, events, analysisFrame, cancel)
}

func (c *competitorController) GetAll(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "Session")
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get competitor analyses", res))
}
