package implementation

import (
	"context"
	"errors"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/mapper"
	"study-assistant-be/internal/model"
	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatTranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatTranscriptMapper
}

func NewChatTranscriptRepository(db *gorm.DB) contract.ChatTranscriptRepository {
	return &ChatTranscriptRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatTranscriptMapper(),
	}
}

func (r *ChatTranscriptRepositoryImpl) Create(ctx context.Context, transcript *entity.ChatTranscript) error {
	if transcript.Id == uuid.Nil {
		transcript.Id = uuid.New()
	}
	m, err := r.mapper.ToModel(transcript)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	transcript.CreatedAt = m.CreatedAt
	return nil
}

func (r *ChatTranscriptRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTranscript, error) {
	var m model.ChatTranscript
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *ChatTranscriptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ChatTranscript{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
