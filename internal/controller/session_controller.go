package controller

import (
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("", c.Create)
	h.Get("stats", serverutils.JwtMiddleware, c.Stats)
	h.Delete("", serverutils.JwtMiddleware, c.End)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Create(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Study session created", res))
}

func (c *sessionController) Stats(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Stats(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session stats", res))
}

func (c *sessionController) End(ctx *fiber.Ctx) error {
	if err := c.sessionService.End(ctx.Context(), serverutils.SessionID(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Study session ended", nil))
}
