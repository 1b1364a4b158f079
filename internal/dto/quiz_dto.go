package dto

import (
	"time"

	"study-assistant-be/pkg/quiz"
)

type GenerateQuizRequest struct {
	NumQuestions int    `json:"num_questions" validate:"omitempty,min=3,max=20"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
}

type GenerateQuizResponse struct {
	Quiz     quiz.View `json:"quiz"`
	Rejected int       `json:"rejected"`
}

type AnswerQuizRequest struct {
	Choice string `json:"choice" validate:"required"`
}

type AnswerQuizResponse struct {
	Feedback quiz.Feedback `json:"feedback"`
	Quiz     quiz.View     `json:"quiz"`
}

type QuizResultResponse struct {
	Difficulty  string    `json:"difficulty"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percent     float64   `json:"percent"`
	CompletedAt time.Time `json:"completed_at"`
}
