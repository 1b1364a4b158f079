package service

import (
	"context"
	"errors"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/pkg/events"
	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/quiz"
	"study-assistant-be/pkg/rag/prompt"
	"study-assistant-be/pkg/store"
)

type IQuizService interface {
	Generate(ctx context.Context, sessionId string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	View(ctx context.Context, sessionId string) (*quiz.View, error)
	Answer(ctx context.Context, sessionId string, req *dto.AnswerQuizRequest) (*dto.AnswerQuizResponse, error)
	Next(ctx context.Context, sessionId string) (*quiz.View, error)
	Restart(ctx context.Context, sessionId string) (*quiz.View, error)
}

type quizService struct {
	access         *SessionAccess
	client         *llm.Client
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewQuizService(
	access *SessionAccess,
	client *llm.Client,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IQuizService {
	return &quizService{
		access:         access,
		client:         client,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Generate asks the model for a quiz over the notes and starts it. Blocks
// that do not parse are dropped; a reply with no usable block leaves the
// previous quiz untouched.
func (s *quizService) Generate(ctx context.Context, sessionId string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	count := req.NumQuestions
	if count == 0 {
		count = prompt.DefaultQuizQuestions
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = prompt.DefaultDifficulty
	}

	var res *dto.GenerateQuizResponse
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		if err := requireNotes(session); err != nil {
			return err
		}

		p, err := prompt.QuizPrompt(session.Notes, count, difficulty)
		if err != nil {
			return serverutils.BadRequest("Invalid quiz options", err)
		}

		result := s.client.Generate(ctx, session.LastCallAt, p)
		session.LastCallAt = result.CalledAt
		if result.Failed() {
			s.logger.Warn("QUIZ", "Quiz generation call failed", map[string]interface{}{
				"session_id": sessionId,
				"notice":     string(result.Notice),
				"error":      result.Err.Error(),
			})
		}

		parsed := quiz.Parse(result.Text)
		for _, r := range parsed.Rejected {
			s.logger.Warn("QUIZ", "Dropped malformed quiz block", map[string]interface{}{
				"session_id": sessionId,
				"block":      r.Block,
				"reason":     r.Reason,
			})
		}
		if err := parsed.Err(); err != nil {
			return serverutils.Unprocessable("Failed to parse quiz", err)
		}

		if err := session.Quiz.Generate(parsed.Questions); err != nil {
			return serverutils.Unprocessable("Failed to parse quiz", err)
		}
		session.QuizDifficulty = difficulty
		session.QuizRecorded = false

		res = &dto.GenerateQuizResponse{
			Quiz:     session.Quiz.View(),
			Rejected: len(parsed.Rejected),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.QuizGenerated, map[string]interface{}{
		"session_id": sessionId,
		"total":      res.Quiz.Total,
		"difficulty": difficulty,
	}))
	return res, nil
}

func (s *quizService) View(ctx context.Context, sessionId string) (*quiz.View, error) {
	var view quiz.View
	err := s.access.read(ctx, sessionId, func(session *store.StudySession) error {
		view = session.Quiz.View()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *quizService) Answer(ctx context.Context, sessionId string, req *dto.AnswerQuizRequest) (*dto.AnswerQuizResponse, error) {
	var res *dto.AnswerQuizResponse
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		fb, err := session.Quiz.Submit(req.Choice)
		if err != nil {
			return quizError(err)
		}
		res = &dto.AnswerQuizResponse{Feedback: fb, Quiz: session.Quiz.View()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Next moves past the revealed answer. Finishing the last question emits
// QUIZ_COMPLETED exactly once per generated quiz.
func (s *quizService) Next(ctx context.Context, sessionId string) (*quiz.View, error) {
	var (
		view      quiz.View
		completed *events.BaseEvent
	)
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		state, err := session.Quiz.Advance()
		if err != nil {
			return quizError(err)
		}
		if state == quiz.StateCompleted && !session.QuizRecorded {
			session.QuizRecorded = true
			evt := events.New(events.QuizCompleted, map[string]interface{}{
				"session_id": sessionId,
				"score":      session.Quiz.Score,
				"total":      session.Quiz.Total(),
				"difficulty": session.QuizDifficulty,
			})
			completed = &evt
		}
		view = session.Quiz.View()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed != nil {
		s.logger.Info("QUIZ", "Quiz completed", completed.Payload())
		s.publish(ctx, *completed)
	}
	return &view, nil
}

func (s *quizService) Restart(ctx context.Context, sessionId string) (*quiz.View, error) {
	var view quiz.View
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		session.Quiz.Restart()
		session.QuizDifficulty = ""
		session.QuizRecorded = false
		view = session.Quiz.View()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *quizService) publish(ctx context.Context, evt events.BaseEvent) {
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("QUIZ", "Failed to publish event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}

func quizError(err error) error {
	switch {
	case errors.Is(err, quiz.ErrInvalidTransition):
		return serverutils.Conflict("Action not allowed in the current quiz state", err)
	case errors.Is(err, quiz.ErrUnknownChoice):
		return serverutils.BadRequest("Choice is not one of the options", err)
	default:
		return serverutils.Internal("Quiz update failed", err)
	}
}
