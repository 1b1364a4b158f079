package mapper

import (
	"encoding/json"

	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ChatTranscriptMapper struct{}

func NewChatTranscriptMapper() *ChatTranscriptMapper {
	return &ChatTranscriptMapper{}
}

func (m *ChatTranscriptMapper) ToEntity(t *model.ChatTranscript) (*entity.ChatTranscript, error) {
	if t == nil {
		return nil, nil
	}

	messages := []entity.TranscriptMessage{}
	if len(t.Messages) > 0 {
		if err := json.Unmarshal(t.Messages, &messages); err != nil {
			return nil, err
		}
	}

	return &entity.ChatTranscript{
		Id:        t.Id,
		SessionId: t.SessionId,
		Kind:      t.Kind,
		Messages:  messages,
		CreatedAt: t.CreatedAt,
	}, nil
}

func (m *ChatTranscriptMapper) ToModel(t *entity.ChatTranscript) (*model.ChatTranscript, error) {
	if t == nil {
		return nil, nil
	}

	messages := t.Messages
	if messages == nil {
		messages = []entity.TranscriptMessage{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	return &model.ChatTranscript{
		Id:           t.Id,
		SessionId:    t.SessionId,
		Kind:         t.Kind,
		Messages:     datatypes.JSON(raw),
		MessageCount: len(messages),
		CreatedAt:    t.CreatedAt,
	}, nil
}
