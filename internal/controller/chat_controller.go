package controller

import (
	"fmt"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Import(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Send)
	h.Get(":kind", c.History)
	h.Delete(":kind", c.Clear)
	h.Get(":kind/export", c.Export)
	h.Post(":kind/import", c.Import)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Send(ctx.Context(), serverutils.SessionID(ctx), req.Message, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	res, err := c.chatService.History(ctx.Context(), serverutils.SessionID(ctx), ctx.Params("kind"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	if err := c.chatService.Clear(ctx.Context(), serverutils.SessionID(ctx), ctx.Params("kind")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat cleared", nil))
}

// Export answers with a bare JSON list so the file can be imported again as-is.
func (c *chatController) Export(ctx *fiber.Ctx) error {
	kind := ctx.Params("kind")
	messages, err := c.chatService.Export(ctx.Context(), serverutils.SessionID(ctx), kind)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_chat.json"`, kind))
	return ctx.JSON(messages)
}

// Import accepts either a bare list of messages or {"messages": [...]}.
func (c *chatController) Import(ctx *fiber.Ctx) error {
	var req dto.ImportChatRequest
	body := ctx.Body()
	if len(body) > 0 && body[0] == '[' {
		if err := ctx.BodyParser(&req.Messages); err != nil {
			return serverutils.BadRequest("Invalid chat file", err)
		}
	} else if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid chat file", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Import(ctx.Context(), serverutils.SessionID(ctx), ctx.Params("kind"), req.Messages)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat imported", res))
}
