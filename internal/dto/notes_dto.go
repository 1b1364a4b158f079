package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadNotesRequest struct {
	Content string `json:"content" validate:"required"`
	Source  string `json:"source" validate:"max=255"`
}

type NotesInfoResponse struct {
	HasNotes  bool   `json:"has_notes"`
	Source    string `json:"source"`
	CharCount int    `json:"char_count"`
	WordCount int    `json:"word_count"`
	Preview   string `json:"preview"`
}

type AskNotesRequest struct {
	Question string `json:"question" validate:"required"`
}

type AskNotesResponse struct {
	Answer     string `json:"answer"`
	ChunksUsed int    `json:"chunks_used"`
	Notice     string `json:"notice,omitempty"`
}

type SummarizeNotesRequest struct {
	DetailLevel string `json:"detail_level" validate:"omitempty,oneof=very_short short detailed"`
}

type SummarizeNotesResponse struct {
	Summary string `json:"summary"`
	Notice  string `json:"notice,omitempty"`
}

// NotesUploadedMessage travels on the internal bus to the archive consumer.
type NotesUploadedMessage struct {
	SessionId uuid.UUID `json:"session_id"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
}

type RestoreNotesRequest struct {
	ArchiveId string `json:"archive_id" validate:"omitempty,uuid"`
}

type NotesArchiveResponse struct {
	Id        uuid.UUID `json:"id"`
	Source    string    `json:"source"`
	CharCount int       `json:"char_count"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

type NotesArchiveListResponse struct {
	Items []NotesArchiveResponse `json:"items"`
	Total int64                  `json:"total"`
}
