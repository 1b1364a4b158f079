package store

import (
	"strings"
	"time"

	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/quiz"
)

// Conversation kinds
const (
	ConversationGeneral = "general"
	ConversationNotes   = "notes"
)

// StudySession is everything one client owns: notes, both conversations and the quiz.
type StudySession struct {
	ID          string `json:"id"`
	Notes       string `json:"notes"`
	NotesSource string `json:"notes_source"`

	// GeneralHistory is sent to the model as-is on every general chat turn.
	GeneralHistory []llm.Message `json:"general_history"`

	// NotesHistory holds the questions the user asked about the notes and the answers.
	NotesHistory []llm.Message `json:"notes_history"`

	Quiz           quiz.Session `json:"quiz"`
	QuizDifficulty string       `json:"quiz_difficulty,omitempty"`
	QuizRecorded   bool         `json:"quiz_recorded"`

	LastCallAt time.Time `json:"last_call_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewStudySession(id string) *StudySession {
	now := time.Now()
	return &StudySession{
		ID:             id,
		GeneralHistory: []llm.Message{},
		NotesHistory:   []llm.Message{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *StudySession) HasNotes() bool {
	return s.Notes != ""
}

// SetNotes replaces the document wholesale.
func (s *StudySession) SetNotes(content, source string) {
	s.Notes = content
	s.NotesSource = source
}

func (s *StudySession) ClearNotes() {
	s.Notes = ""
	s.NotesSource = ""
}

// Conversation returns a pointer to the history of kind, or nil for an unknown kind.
func (s *StudySession) Conversation(kind string) *[]llm.Message {
	switch kind {
	case ConversationGeneral:
		return &s.GeneralHistory
	case ConversationNotes:
		return &s.NotesHistory
	default:
		return nil
	}
}

func (s *StudySession) Touch() {
	s.UpdatedAt = time.Now()
}

// Stats is the quick overview shown next to the notes.
type Stats struct {
	WordCount      int        `json:"word_count"`
	CharCount      int        `json:"char_count"`
	QuestionsAsked int        `json:"questions_asked"`
	QuizScore      int        `json:"quiz_score"`
	QuizTotal      int        `json:"quiz_total"`
	QuizState      quiz.State `json:"quiz_state"`
}

func (s *StudySession) Stats() Stats {
	asked := 0
	for _, m := range s.NotesHistory {
		if m.Role == llm.RoleUser {
			asked++
		}
	}
	return Stats{
		WordCount:      len(strings.Fields(s.Notes)),
		CharCount:      len([]rune(s.Notes)),
		QuestionsAsked: asked,
		QuizScore:      s.Quiz.Score,
		QuizTotal:      s.Quiz.Total(),
		QuizState:      s.Quiz.State(),
	}
}
