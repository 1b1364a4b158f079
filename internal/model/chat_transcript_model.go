package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTranscript struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind         string         `gorm:"type:varchar(20);not null"`
	Messages     datatypes.JSON `gorm:"not null"`
	MessageCount int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (ChatTranscript) TableName() string {
	return "chat_transcripts"
}
