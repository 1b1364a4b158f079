package service

import (
	"context"
	"errors"
	"time"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/repository/specification"
	"study-assistant-be/internal/repository/unitofwork"
	"study-assistant-be/pkg/events"
	pktNats "study-assistant-be/pkg/nats"

	"github.com/google/uuid"
)

const quizResultDurable = "quiz-result-recorder"

// SessionNotifier pushes a frame to every live connection of a study session.
// Implemented by the websocket hub.
type SessionNotifier interface {
	SendToSession(sessionID string, payload interface{})
}

type IQuizResultService interface {
	Start(ctx context.Context) error
	Record(ctx context.Context, event events.BaseEvent) error
	History(ctx context.Context, sessionId string) ([]*dto.QuizResultResponse, error)
}

type quizResultService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	notifier   SessionNotifier
	logger     logger.ILogger
}

func NewQuizResultService(
	uowFactory unitofwork.RepositoryFactory,
	subscriber *pktNats.Subscriber,
	notifier SessionNotifier,
	log logger.ILogger,
) IQuizResultService {
	return &quizResultService{
		uowFactory: uowFactory,
		subscriber: subscriber,
		notifier:   notifier,
		logger:     log,
	}
}

// Start subscribes the recorder to QUIZ_COMPLETED on the event bus.
func (s *quizResultService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return errors.New("no NATS subscriber available")
	}
	if err := s.subscriber.Subscribe(ctx, events.QuizCompleted, quizResultDurable, s.Record); err != nil {
		return err
	}
	s.logger.Info("QUIZ_RESULT", "Listening for QUIZ_COMPLETED", nil)
	return nil
}

// Record stores a completed quiz and tells the session's clients about it.
// Events that can never be stored are dropped instead of retried.
func (s *quizResultService) Record(ctx context.Context, event events.BaseEvent) error {
	sessionId := event.String("session_id")
	id, err := uuid.Parse(sessionId)
	if err != nil {
		s.logger.Warn("QUIZ_RESULT", "Dropping event without a valid session id", map[string]interface{}{"session_id": sessionId})
		return nil
	}

	completedAt := event.Timestamp()
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	result := &entity.QuizResult{
		SessionId:   id,
		Difficulty:  event.String("difficulty"),
		Score:       event.Int("score"),
		Total:       event.Int("total"),
		CompletedAt: completedAt,
	}
	if result.Total <= 0 {
		s.logger.Warn("QUIZ_RESULT", "Dropping event with no questions", map[string]interface{}{"session_id": sessionId})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.QuizResultRepository().Create(ctx, result); err != nil {
		s.logger.Error("QUIZ_RESULT", "Failed to store quiz result", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("QUIZ_RESULT", "Quiz result stored", map[string]interface{}{
		"session_id": sessionId,
		"score":      result.Score,
		"total":      result.Total,
	})

	if s.notifier != nil {
		s.notifier.SendToSession(sessionId, dto.StreamFrame{
			Type: dto.FrameQuizCompleted,
			Data: toQuizResultResponse(result),
		})
	}
	return nil
}

func (s *quizResultService) History(ctx context.Context, sessionId string) ([]*dto.QuizResultResponse, error) {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, serverutils.BadRequest("Invalid session id", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	results, err := uow.QuizResultRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.OrderBy{Field: "completed_at", Desc: true},
	)
	if err != nil {
		return nil, serverutils.Internal("Failed to load quiz history", err)
	}

	res := make([]*dto.QuizResultResponse, len(results))
	for i, r := range results {
		res[i] = toQuizResultResponse(r)
	}
	return res, nil
}

func toQuizResultResponse(r *entity.QuizResult) *dto.QuizResultResponse {
	return &dto.QuizResultResponse{
		Difficulty:  r.Difficulty,
		Score:       r.Score,
		Total:       r.Total,
		Percent:     r.Percent(),
		CompletedAt: r.CompletedAt,
	}
}
