package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"study-assistant-be/pkg/llm"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-2.5-flash"

	roleUser  = "user"
	roleModel = "model"
)

type responseIterator interface {
	Next() (*genai.GenerateContentResponse, error)
}

// chatSession is the part of *genai.ChatSession the provider uses.
type chatSession interface {
	send(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	sendStream(ctx context.Context, parts ...genai.Part) responseIterator
}

type sdkSession struct {
	cs *genai.ChatSession
}

func (s sdkSession) send(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return s.cs.SendMessage(ctx, parts...)
}

func (s sdkSession) sendStream(ctx context.Context, parts ...genai.Part) responseIterator {
	return s.cs.SendMessageStream(ctx, parts...)
}

// turn is one request: the earlier conversation plus the parts being sent.
type turn struct {
	model   string
	options *llm.Options
	system  *genai.Content
	history []*genai.Content
	parts   []genai.Part
}

type GeminiProvider struct {
	ModelName string

	client    *genai.Client
	startChat func(t turn) chatSession
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	p := &GeminiProvider{ModelName: modelName, client: client}
	p.startChat = p.sdkChat
	return p, nil
}

func (g *GeminiProvider) sdkChat(t turn) chatSession {
	model := g.client.GenerativeModel(t.model)
	model.SetTemperature(float32(t.options.Temperature))
	if t.options.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(t.options.MaxTokens))
	}
	model.SystemInstruction = t.system

	cs := model.StartChat()
	cs.History = t.history
	return sdkSession{cs: cs}
}

func (g *GeminiProvider) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	t := g.newTurn(history, opts...)
	resp, err := g.startChat(t).send(ctx, t.parts...)
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return responseText(resp), nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Stream ranges over the SDK's response iterator until iterator.Done.
func (g *GeminiProvider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		t := g.newTurn(history, opts...)
		it := g.startChat(t).sendStream(ctx, t.parts...)
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield("", wrapError(err))
				return
			}
			if !yield(responseText(resp), nil) {
				return
			}
		}
	}
}

// newTurn splits the history into the system instruction, the earlier
// contents and the final message, which is what gets sent.
func (g *GeminiProvider) newTurn(history []llm.Message, opts ...llm.Option) turn {
	t := turn{model: g.ModelName, options: llm.ApplyOptions(opts...)}
	if t.options.Model != "" {
		t.model = t.options.Model
	}

	var contents []*genai.Content
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			t.system = genai.NewUserContent(genai.Text(msg.Content))
		case llm.RoleAssistant, roleModel:
			contents = append(contents, &genai.Content{Role: roleModel, Parts: []genai.Part{genai.Text(msg.Content)}})
		default:
			contents = append(contents, &genai.Content{Role: roleUser, Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}

	if n := len(contents); n > 0 {
		t.parts = contents[n-1].Parts
		t.history = contents[:n-1]
	} else {
		t.parts = []genai.Part{genai.Text("")}
	}
	return t
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return sb.String()
}

// wrapError surfaces the HTTP status of an API failure as *llm.HTTPError.
func wrapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &llm.HTTPError{Provider: "gemini", StatusCode: apiErr.Code, Body: apiErr.Error()}
	}
	return fmt.Errorf("gemini request failed: %w", err)
}
