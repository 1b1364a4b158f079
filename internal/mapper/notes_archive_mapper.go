package mapper

import (
	"time"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/model"

	"gorm.io/gorm"
)

type NotesArchiveMapper struct{}

func NewNotesArchiveMapper() *NotesArchiveMapper {
	return &NotesArchiveMapper{}
}

func (m *NotesArchiveMapper) ToEntity(n *model.NotesArchive) *entity.NotesArchive {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.NotesArchive{
		Id:        n.Id,
		SessionId: n.SessionId,
		Source:    n.Source,
		Content:   n.Content,
		CharCount: n.CharCount,
		WordCount: n.WordCount,
		CreatedAt: n.CreatedAt,
		DeletedAt: deletedAt,
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *NotesArchiveMapper) ToModel(n *entity.NotesArchive) *model.NotesArchive {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.NotesArchive{
		Id:        n.Id,
		SessionId: n.SessionId,
		Source:    n.Source,
		Content:   n.Content,
		CharCount: n.CharCount,
		WordCount: n.WordCount,
		CreatedAt: n.CreatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *NotesArchiveMapper) ToEntities(archives []*model.NotesArchive) []*entity.NotesArchive {
	entities := make([]*entity.NotesArchive, len(archives))
	for i, n := range archives {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
