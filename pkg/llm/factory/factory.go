package factory

import (
	"context"
	"fmt"

	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/llm/gemini"
	"study-assistant-be/pkg/llm/ollama"
	"study-assistant-be/pkg/llm/openai"
)

// Settings carries what any of the providers may need.
type Settings struct {
	Provider      string
	Model         string
	GoogleAPIKey  string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "gemini", "":
		if s.GoogleAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_API_KEY")
		}
		provider, err := gemini.NewGeminiProvider(context.Background(), s.GoogleAPIKey, s.Model)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "openai":
		provider, err := openai.NewOpenAIProvider(s.OpenAIBaseURL, s.OpenAIAPIKey, s.Model)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
