package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

func TestChat_JSONFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json", req.Format)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		require.NotNil(t, req.Options)
		assert.Equal(t, 64, req.Options.NumPredict)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"label\":\"kitchen\"}"},"done":true}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "classify"},
		{Role: "user", Content: "blender"},
	}, driven.ChatOptions{JSON: true, MaxTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, `{"label":"kitchen"}`, out)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestChat_PlainOmitsFormatAndOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.Format)
		assert.Nil(t, req.Options)
		assert.Equal(t, "qwen2.5", req.Model)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"garden"}}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL, Model: "qwen2.5"})
	out, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hose"}}, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "garden", out)
}

func TestChat_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such model")
	assert.Error(t, svc.Ping(context.Background()))
}

func TestChat_ErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model is loading"}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	assert.ErrorContains(t, err, "model is loading")
}
