package dto

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatReplyResponse struct {
	Reply  string `json:"reply"`
	Notice string `json:"notice,omitempty"`
}

type ImportChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"dive"`
}

type ChatHistoryResponse struct {
	Kind     string        `json:"kind"`
	Messages []ChatMessage `json:"messages"`
}
