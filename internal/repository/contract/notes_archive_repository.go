package contract

import (
	"context"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/repository/specification"
)

type NotesArchiveRepository interface {
	Create(ctx context.Context, archive *entity.NotesArchive) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NotesArchive, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotesArchive, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
