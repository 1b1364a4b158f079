package handler

import (
	"context"
	"encoding/json"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/service"
	internalWS "study-assistant-be/internal/websocket"
	"study-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// StreamHandler serves chat turns over a websocket, streaming model output
// as it arrives.
type StreamHandler struct {
	chatService  service.IChatService
	notesService service.INotesService
	hub          *internalWS.Hub
	logger       logger.ILogger
}

func NewStreamHandler(chatService service.IChatService, notesService service.INotesService, hub *internalWS.Hub, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		chatService:  chatService,
		notesService: notesService,
		hub:          hub,
		logger:       log,
	}
}

func (h *StreamHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/stream/v1")
	g.Get("/ws", h.ServeWs)
}

// ServeWs authenticates the handshake with the session token from the
// "token" query parameter or the Authorization header.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return serverutils.Unauthorized("Missing token (query 'token' or header 'Authorization')")
	}

	sessionID, err := serverutils.ParseSessionToken(tokenStr)
	if err != nil {
		h.logger.Warn("StreamHandler", "Invalid token in websocket handshake", map[string]interface{}{"error": err.Error()})
		return serverutils.Unauthorized("Invalid token")
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StreamHandler", "Stream opened", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID, h.handleMessage)
		h.logger.Info("StreamHandler", "Stream closed", map[string]interface{}{"session_id": sessionID})
	})(c)
}

func (h *StreamHandler) handleMessage(ctx context.Context, client *internalWS.Client, data []byte) {
	if !client.TryBegin() {
		client.EmitFinal(dto.StreamFrame{Type: dto.FrameError, Data: "A reply is already streaming"})
		return
	}
	defer client.End()

	var req dto.StreamRequest
	if err := json.Unmarshal(data, &req); err != nil {
		client.EmitFinal(dto.StreamFrame{Type: dto.FrameError, Data: "Malformed request"})
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		client.EmitFinal(dto.StreamFrame{Type: dto.FrameError, Data: errorMessage(err)})
		return
	}

	onFragment := func(fragment string) {
		client.Emit(dto.StreamFrame{Type: dto.FrameFragment, Data: fragment})
	}

	var (
		reply interface{}
		err   error
	)
	switch req.Kind {
	case store.ConversationNotes:
		reply, err = h.notesService.Ask(ctx, client.SessionID, req.Message, onFragment)
	default:
		reply, err = h.chatService.Send(ctx, client.SessionID, req.Message, onFragment)
	}
	if err != nil {
		client.EmitFinal(dto.StreamFrame{Type: dto.FrameError, Data: errorMessage(err)})
		return
	}
	client.EmitFinal(dto.StreamFrame{Type: dto.FrameDone, Data: reply})
}

func errorMessage(err error) string {
	if appErr, ok := serverutils.AsAppError(err); ok {
		return appErr.Message
	}
	return "Internal server error"
}
