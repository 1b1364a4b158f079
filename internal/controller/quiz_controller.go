package controller

import (
	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuizController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
	Next(ctx *fiber.Ctx) error
	Restart(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type quizController struct {
	quizService       service.IQuizService
	quizResultService service.IQuizResultService
}

func NewQuizController(quizService service.IQuizService, quizResultService service.IQuizResultService) IQuizController {
	return &quizController{
		quizService:       quizService,
		quizResultService: quizResultService,
	}
}

func (c *quizController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/quiz/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Generate)
	h.Get("", c.Show)
	h.Post("answer", c.Answer)
	h.Post("next", c.Next)
	h.Post("restart", c.Restart)
	h.Get("history", c.History)
}

func (c *quizController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.BadRequest("Invalid request body", err)
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.Generate(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Quiz generated", res))
}

func (c *quizController) Show(ctx *fiber.Ctx) error {
	res, err := c.quizService.View(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get quiz", res))
}

func (c *quizController) Answer(ctx *fiber.Ctx) error {
	var req dto.AnswerQuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.Answer(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer submitted", res))
}

func (c *quizController) Next(ctx *fiber.Ctx) error {
	res, err := c.quizService.Next(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success next question", res))
}

func (c *quizController) Restart(ctx *fiber.Ctx) error {
	res, err := c.quizService.Restart(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Quiz restarted", res))
}

func (c *quizController) History(ctx *fiber.Ctx) error {
	res, err := c.quizResultService.History(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get quiz history", res))
}
