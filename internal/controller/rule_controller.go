package controller

import (
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRuleController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Apply(ctx *fiber.Ctx) error
	Niches(ctx *fiber.Ctx) error
}

type ruleController struct {
	rules   service.IRuleService
	catalog service.ICatalogService
}

func NewRuleController(rules service.IRuleService, catalog service.ICatalogService) IRuleController {
	return &ruleController{rules: rules, catalog: catalog}
}

func (c *ruleController) RegisterRoutes(r fiber.Router) {
	r.Get("/rules", c.GetAll)
	r.Post("/rules/:id/apply", c.Apply)
	r.Get("/niches", c.Niches)
}

func (c *ruleController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.rules.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get learned rules", res))
}

func (c *ruleController) Apply(ctx *fiber.Ctx) error {
	id, err := idParam(ctx, "Rule")
	if err != nil {
		return err
	}

	if err := c.rules.Apply(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success apply rule", nil))
}

func (c *ruleController) Niches(ctx *fiber.Ctx) error {
	res, err := c.catalog.Niches(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get niches", res))
}
