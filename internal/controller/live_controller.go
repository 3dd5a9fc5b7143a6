package controller

import (
	"mindforge-be/internal/service"
	ws "mindforge-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type ILiveController interface {
	RegisterRoutes(r fiber.Router)
}

type liveController struct {
	hub      *ws.Hub
	sessions service.ISessionService
}

func NewLiveController(hub *ws.Hub, sessions service.ISessionService) ILiveController {
	return &liveController{hub: hub, sessions: sessions}
}

func (c *liveController) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/sessions/:id", c.upgrade, websocket.New(func(conn *websocket.Conn) {
		id := conn.Locals("session_id").(uuid.UUID)
		ws.ServeWs(c.hub, conn, id)
	}))
}

// upgrade rejects plain HTTP and unknown sessions before the handshake.
func (c *liveController) upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	id, err := idParam(ctx, "Session")
	if err != nil {
		return err
	}
	if _, err := c.sessions.Show(ctx.UserContext(), id); err != nil {
		return err
	}
	ctx.Locals("session_id", id)
	return ctx.Next()
}
