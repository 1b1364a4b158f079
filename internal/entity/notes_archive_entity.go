package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotesArchive struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Source    string
	Content   string
	CharCount int
	WordCount int
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
