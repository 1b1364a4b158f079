package openai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"study-assistant-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// errStopped aborts a langchaingo stream when the consumer stops ranging.
var errStopped = errors.New("stream consumer stopped")

// OpenAIProvider talks to any OpenAI-compatible chat endpoint through langchaingo.
type OpenAIProvider struct {
	client *lcopenai.LLM
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		lcopenai.WithModel(modelName),
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &OpenAIProvider{client: client}, nil
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := p.client.GenerateContent(ctx, toMessageContent(history), callOptions(opts)...)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *OpenAIProvider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		streaming := llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if !yield(string(chunk), nil) {
				stopped = true
				return errStopped
			}
			return nil
		})

		callOpts := append(callOptions(opts), streaming)
		_, err := p.client.GenerateContent(ctx, toMessageContent(history), callOpts...)
		if err != nil && !stopped {
			yield("", fmt.Errorf("openai stream failed: %w", err))
		}
	}
}

func toMessageContent(history []llm.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		switch msg.Role {
		case llm.RoleAssistant, "model":
			role = llms.ChatMessageTypeAI
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	return content
}

func callOptions(opts []llm.Option) []llms.CallOption {
	options := llm.ApplyOptions(opts...)
	callOpts := []llms.CallOption{llms.WithTemperature(options.Temperature)}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.Model != "" {
		callOpts = append(callOpts, llms.WithModel(options.Model))
	}
	return callOpts
}
