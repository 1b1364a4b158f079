package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

// CompletedSince keeps quiz results completed at or after Since.
type CompletedSince struct {
	Since time.Time
}

func (s CompletedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("completed_at >= ?", s.Since)
}
