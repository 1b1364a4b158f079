package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"study-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, "assistant", req.Messages[1].Role)
		fmt.Fprint(w, `{"model":"llama3","message":{"role":"assistant","content":"Mitochondria"},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	text, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "powerhouse?"},
		{Role: "model", Content: "earlier"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mitochondria", text)
}

func TestOllamaProvider_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"Cell "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"membrane"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	text, err := llm.Accumulate(p.Stream(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "q"}}))
	require.NoError(t, err)
	assert.Equal(t, "Cell membrane", text)
}

func TestOllamaProvider_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing")
	_, err := p.Generate(context.Background(), "q")

	var httpErr *llm.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, llm.NoticeFailed, llm.Classify(err))
}
