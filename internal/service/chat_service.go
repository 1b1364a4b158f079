package service

import (
	"context"
	"errors"
	"strings"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/repository/unitofwork"
	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrUnknownConversation = errors.New("unknown conversation kind")
	ErrInvalidTranscript   = errors.New("invalid chat transcript")
)

type IChatService interface {
	Send(ctx context.Context, sessionId string, message string, onFragment func(string)) (*dto.ChatReplyResponse, error)
	History(ctx context.Context, sessionId string, kind string) (*dto.ChatHistoryResponse, error)
	Clear(ctx context.Context, sessionId string, kind string) error
	Export(ctx context.Context, sessionId string, kind string) ([]dto.ChatMessage, error)
	Import(ctx context.Context, sessionId string, kind string, messages []dto.ChatMessage) (*dto.ChatHistoryResponse, error)
}

type chatService struct {
	access     *SessionAccess
	client     *llm.Client
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewChatService(
	access *SessionAccess,
	client *llm.Client,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IChatService {
	return &chatService{
		access:     access,
		client:     client,
		uowFactory: uowFactory,
		logger:     log,
	}
}

// Send runs one turn of the general conversation. The whole visible history
// goes to the model so it keeps context across turns.
func (s *chatService) Send(ctx context.Context, sessionId string, message string, onFragment func(string)) (*dto.ChatReplyResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, serverutils.BadRequest("Message is required", nil)
	}

	var res *dto.ChatReplyResponse
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		session.GeneralHistory = append(session.GeneralHistory, llm.Message{Role: llm.RoleUser, Content: message})

		result := s.client.Chat(ctx, session.LastCallAt, cloneMessages(session.GeneralHistory), onFragment)
		session.LastCallAt = result.CalledAt
		if result.Failed() {
			s.logger.Warn("CHAT", "General chat turn failed", map[string]interface{}{
				"session_id": sessionId,
				"notice":     string(result.Notice),
				"error":      result.Err.Error(),
			})
		}
		if result.Text != "" {
			session.GeneralHistory = append(session.GeneralHistory, llm.Message{Role: llm.RoleAssistant, Content: result.Text})
		}

		res = &dto.ChatReplyResponse{Reply: result.Text, Notice: string(result.Notice)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *chatService) History(ctx context.Context, sessionId string, kind string) (*dto.ChatHistoryResponse, error) {
	var res *dto.ChatHistoryResponse
	err := s.access.read(ctx, sessionId, func(session *store.StudySession) error {
		conv, err := conversation(session, kind)
		if err != nil {
			return err
		}
		res = &dto.ChatHistoryResponse{Kind: kind, Messages: toChatMessages(*conv)}
		return nil
	})
	return res, err
}

func (s *chatService) Clear(ctx context.Context, sessionId string, kind string) error {
	return s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		conv, err := conversation(session, kind)
		if err != nil {
			return err
		}
		*conv = []llm.Message{}
		return nil
	})
}

// Export returns the conversation for download and keeps a copy in the
// transcripts table. Archiving is best effort.
func (s *chatService) Export(ctx context.Context, sessionId string, kind string) ([]dto.ChatMessage, error) {
	var messages []dto.ChatMessage
	err := s.access.read(ctx, sessionId, func(session *store.StudySession) error {
		conv, err := conversation(session, kind)
		if err != nil {
			return err
		}
		messages = toChatMessages(*conv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.archiveTranscript(ctx, sessionId, kind, messages); err != nil {
		s.logger.Warn("CHAT", "Failed to archive chat transcript", map[string]interface{}{
			"session_id": sessionId,
			"kind":       kind,
			"error":      err.Error(),
		})
	}
	return messages, nil
}

func (s *chatService) archiveTranscript(ctx context.Context, sessionId, kind string, messages []dto.ChatMessage) error {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return err
	}

	transcript := &entity.ChatTranscript{
		SessionId: id,
		Kind:      kind,
		Messages:  make([]entity.TranscriptMessage, len(messages)),
	}
	for i, m := range messages {
		transcript.Messages[i] = entity.TranscriptMessage{Role: m.Role, Content: m.Content}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatTranscriptRepository().Create(ctx, transcript)
}

// Import replaces the conversation with an uploaded transcript.
func (s *chatService) Import(ctx context.Context, sessionId string, kind string, messages []dto.ChatMessage) (*dto.ChatHistoryResponse, error) {
	imported := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return nil, serverutils.BadRequest("Messages must have role user or assistant", ErrInvalidTranscript)
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, serverutils.BadRequest("Messages must not be empty", ErrInvalidTranscript)
		}
		imported = append(imported, llm.Message{Role: m.Role, Content: m.Content})
	}

	var res *dto.ChatHistoryResponse
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		conv, err := conversation(session, kind)
		if err != nil {
			return err
		}
		*conv = imported
		res = &dto.ChatHistoryResponse{Kind: kind, Messages: toChatMessages(imported)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func conversation(session *store.StudySession, kind string) (*[]llm.Message, error) {
	conv := session.Conversation(kind)
	if conv == nil {
		return nil, serverutils.BadRequest("Conversation must be general or notes", ErrUnknownConversation)
	}
	return conv, nil
}

func toChatMessages(messages []llm.Message) []dto.ChatMessage {
	out := make([]dto.ChatMessage, len(messages))
	for i, m := range messages {
		out[i] = dto.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
