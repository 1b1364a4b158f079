package controller

import (
	"io"
	"path/filepath"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxNotesFileSize = 10 * 1024 * 1024

type INotesController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	UploadFile(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
	Archives(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
}

type notesController struct {
	notesService service.INotesService
}

func NewNotesController(notesService service.INotesService) INotesController {
	return &notesController{
		notesService: notesService,
	}
}

func (c *notesController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Upload)
	h.Post("file", c.UploadFile)
	h.Get("", c.Show)
	h.Delete("", c.Clear)
	h.Post("restore", c.Restore)
	h.Get("archives", c.Archives)
	h.Post("ask", c.Ask)
	h.Post("summary", c.Summarize)
}

func (c *notesController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.notesService.Upload(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notes uploaded", res))
}

func (c *notesController) UploadFile(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.BadRequest("Form field 'file' is required", err)
	}
	if fileHeader.Size > maxNotesFileSize {
		return serverutils.BadRequest("File is larger than 10MB", nil)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return serverutils.BadRequest("Could not open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxNotesFileSize+1))
	if err != nil {
		return serverutils.BadRequest("Could not read uploaded file", err)
	}

	res, err := c.notesService.UploadFile(ctx.Context(), serverutils.SessionID(ctx), filepath.Base(fileHeader.Filename), data)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notes uploaded", res))
}

func (c *notesController) Show(ctx *fiber.Ctx) error {
	res, err := c.notesService.Info(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get notes", res))
}

func (c *notesController) Clear(ctx *fiber.Ctx) error {
	if err := c.notesService.Clear(ctx.Context(), serverutils.SessionID(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notes cleared", nil))
}

func (c *notesController) Restore(ctx *fiber.Ctx) error {
	var req dto.RestoreNotesRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.BadRequest("Invalid request body", err)
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.notesService.Restore(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notes restored", res))
}

func (c *notesController) Archives(ctx *fiber.Ctx) error {
	res, err := c.notesService.Archives(ctx.Context(), serverutils.SessionID(ctx), ctx.QueryInt("limit", 20), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list archived notes", res))
}

func (c *notesController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.notesService.Ask(ctx.Context(), serverutils.SessionID(ctx), req.Question, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

func (c *notesController) Summarize(ctx *fiber.Ctx) error {
	var req dto.SummarizeNotesRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.BadRequest("Invalid request body", err)
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.notesService.Summarize(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success summarize notes", res))
}
