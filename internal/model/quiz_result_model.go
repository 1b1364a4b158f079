package model

import (
	"time"

	"github.com/google/uuid"
)

type QuizResult struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Difficulty  string    `gorm:"type:varchar(20)"`
	Score       int       `gorm:"not null"`
	Total       int       `gorm:"not null"`
	CompletedAt time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
