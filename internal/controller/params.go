package controller

import (
	"context"

	"mindforge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// idParam parses :id. Anything that is not a UUID cannot exist, so it is a 404.
func idParam(ctx *fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.NotFound(what + " not found")
	}
	return id, nil
}

// streamContext outlives the handler so a stream can keep running inside
// the body writer; cancel is called when the client goes away.
func streamContext(ctx *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithCancel(context.WithoutCancel(ctx.UserContext()))
}
