package unitofwork

import (
	"context"

	"study-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NotesArchiveRepository() contract.NotesArchiveRepository
	ChatTranscriptRepository() contract.ChatTranscriptRepository
	QuizResultRepository() contract.QuizResultRepository
}
