package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotesArchive struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Source    string         `gorm:"type:varchar(255)"`
	Content   string         `gorm:"type:text;not null"`
	CharCount int            `gorm:"not null;default:0"`
	WordCount int            `gorm:"not null;default:0"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (NotesArchive) TableName() string {
	return "notes_archives"
}
