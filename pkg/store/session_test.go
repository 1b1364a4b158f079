package store

import (
	"testing"

	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudySession_Stats(t *testing.T) {
	s := NewStudySession("abc")
	s.SetNotes("Cells are the basic unit of life. Über", "bio.txt")
	s.NotesHistory = []llm.Message{
		{Role: llm.RoleUser, Content: "what are cells?"},
		{Role: llm.RoleAssistant, Content: "units"},
		{Role: llm.RoleUser, Content: "and?"},
	}
	require.NoError(t, s.Quiz.Generate([]quiz.Question{
		{Question: "q", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
	}))
	_, _ = s.Quiz.Submit("a")

	stats := s.Stats()
	assert.Equal(t, 8, stats.WordCount)
	assert.Equal(t, 38, stats.CharCount)
	assert.Equal(t, 2, stats.QuestionsAsked)
	assert.Equal(t, 1, stats.QuizScore)
	assert.Equal(t, 1, stats.QuizTotal)
	assert.Equal(t, quiz.StateAnswerRevealed, stats.QuizState)
}

func TestStudySession_Notes(t *testing.T) {
	s := NewStudySession("abc")
	assert.False(t, s.HasNotes())

	s.SetNotes("first", "a.txt")
	s.SetNotes("second", "b.pdf")
	assert.Equal(t, "second", s.Notes)
	assert.Equal(t, "b.pdf", s.NotesSource)

	s.ClearNotes()
	assert.False(t, s.HasNotes())
	assert.Empty(t, s.NotesSource)
}

func TestStudySession_Conversation(t *testing.T) {
	s := NewStudySession("abc")

	general := s.Conversation(ConversationGeneral)
	require.NotNil(t, general)
	*general = append(*general, llm.Message{Role: llm.RoleUser, Content: "hi"})
	assert.Len(t, s.GeneralHistory, 1)

	assert.NotNil(t, s.Conversation(ConversationNotes))
	assert.Nil(t, s.Conversation("other"))
}
