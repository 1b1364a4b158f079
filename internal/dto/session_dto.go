package dto

import (
	"time"

	"study-assistant-be/pkg/quiz"
)

type CreateSessionResponse struct {
	SessionId string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionStatsResponse struct {
	NotesSource    string     `json:"notes_source"`
	WordCount      int        `json:"word_count"`
	CharCount      int        `json:"char_count"`
	QuestionsAsked int        `json:"questions_asked"`
	QuizScore      int        `json:"quiz_score"`
	QuizTotal      int        `json:"quiz_total"`
	QuizState      quiz.State `json:"quiz_state"`
}
