package contract

import (
	"context"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/repository/specification"
)

type ChatTranscriptRepository interface {
	Create(ctx context.Context, transcript *entity.ChatTranscript) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTranscript, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
