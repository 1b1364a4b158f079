package contract

import (
	"context"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/repository/specification"
)

type QuizResultRepository interface {
	Create(ctx context.Context, result *entity.QuizResult) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuizResult, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
