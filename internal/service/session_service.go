package service

import (
	"context"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/pkg/store"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	Stats(ctx context.Context, sessionId string) (*dto.SessionStatsResponse, error)
	End(ctx context.Context, sessionId string) error
}

type sessionService struct {
	access *SessionAccess
	logger logger.ILogger
}

func NewSessionService(access *SessionAccess, log logger.ILogger) ISessionService {
	return &sessionService{
		access: access,
		logger: log,
	}
}

func (s *sessionService) Create(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := store.NewStudySession(uuid.NewString())
	if err := s.access.repo.Save(ctx, session); err != nil {
		return nil, serverutils.Internal("Failed to create session", err)
	}

	token, expiresAt, err := serverutils.IssueSessionToken(session.ID, s.access.repo.TTL())
	if err != nil {
		return nil, serverutils.Internal("Failed to issue session token", err)
	}

	s.logger.Info("SESSION", "Study session created", map[string]interface{}{"session_id": session.ID})

	return &dto.CreateSessionResponse{
		SessionId: session.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *sessionService) Stats(ctx context.Context, sessionId string) (*dto.SessionStatsResponse, error) {
	var res dto.SessionStatsResponse
	err := s.access.read(ctx, sessionId, func(session *store.StudySession) error {
		stats := session.Stats()
		res = dto.SessionStatsResponse{
			NotesSource:    session.NotesSource,
			WordCount:      stats.WordCount,
			CharCount:      stats.CharCount,
			QuestionsAsked: stats.QuestionsAsked,
			QuizScore:      stats.QuizScore,
			QuizTotal:      stats.QuizTotal,
			QuizState:      stats.QuizState,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *sessionService) End(ctx context.Context, sessionId string) error {
	unlock, err := s.access.lock(ctx, sessionId)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.access.repo.Delete(ctx, sessionId); err != nil {
		return serverutils.Internal("Failed to end session", err)
	}

	s.logger.Info("SESSION", "Study session ended", map[string]interface{}{"session_id": sessionId})
	return nil
}
