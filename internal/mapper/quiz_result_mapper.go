package mapper

import (
	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/model"
)

type QuizResultMapper struct{}

func NewQuizResultMapper() *QuizResultMapper {
	return &QuizResultMapper{}
}

func (m *QuizResultMapper) ToEntity(r *model.QuizResult) *entity.QuizResult {
	if r == nil {
		return nil
	}
	return &entity.QuizResult{
		Id:          r.Id,
		SessionId:   r.SessionId,
		Difficulty:  r.Difficulty,
		Score:       r.Score,
		Total:       r.Total,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *QuizResultMapper) ToModel(r *entity.QuizResult) *model.QuizResult {
	if r == nil {
		return nil
	}
	return &model.QuizResult{
		Id:          r.Id,
		SessionId:   r.SessionId,
		Difficulty:  r.Difficulty,
		Score:       r.Score,
		Total:       r.Total,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *QuizResultMapper) ToEntities(results []*model.QuizResult) []*entity.QuizResult {
	entities := make([]*entity.QuizResult, len(results))
	for i, r := range results {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
