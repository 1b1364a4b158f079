package implementation

import (
	"context"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/mapper"
	"study-assistant-be/internal/model"
	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizResultRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuizResultMapper
}

func NewQuizResultRepository(db *gorm.DB) contract.QuizResultRepository {
	return &QuizResultRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuizResultMapper(),
	}
}

func (r *QuizResultRepositoryImpl) Create(ctx context.Context, result *entity.QuizResult) error {
	if result.Id == uuid.Nil {
		result.Id = uuid.New()
	}
	m := r.mapper.ToModel(result)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*result = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuizResultRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuizResult, error) {
	var models []*model.QuizResult
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QuizResultRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.QuizResult{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
