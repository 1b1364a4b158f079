package entity

import (
	"time"

	"github.com/google/uuid"
)

type QuizResult struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	Difficulty  string
	Score       int
	Total       int
	CompletedAt time.Time
	CreatedAt   time.Time
}

// Percent returns the score as a percentage of the total.
func (r *QuizResult) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}
