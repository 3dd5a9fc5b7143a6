package controller

import (
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWhitepaperController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
}

type whitepaperController struct {
	service service.IWhitepaperService
}

func NewWhitepaperController(service service.IWhitepaperService) IWhitepaperController {
	return &whitepaperController{service: service}
}

func (c *whitepaperController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/whitepaper")
	h.Get(":id", c.Show)
	h.Post(":id/generate", c.Generate)
}

func (c *whitepaperController) Show(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "Whitepaper")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show whitepaper", res))
}

func (c *whitepaperController) Generate(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "Session")
	if err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate whitepaper", res))
}
