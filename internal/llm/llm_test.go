package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridassist/internal/config"
)

func fakeOpenAI(t *testing.T, content string, got *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIComplete(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := fakeOpenAI(t, "Run the dishwasher at night.", &got)

	p := NewOpenAI("test-key", srv.URL+"/v1", srv.Client())
	text, err := p.Complete(context.Background(), UserPrompt("gpt-3.5-turbo", "give me tips"))
	require.NoError(t, err)
	assert.Equal(t, "Run the dishwasher at night.", text)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, RoleUser, got.Messages[0].Role)
	assert.Equal(t, "give me tips", got.Messages[0].Content)
}

func TestOpenAISystemPrompt(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := fakeOpenAI(t, "Step 1: check the meter.", &got)

	p := NewOpenAI("test-key", srv.URL+"/v1", srv.Client())
	_, err := p.Complete(context.Background(), SystemPrompt("gpt-4", "be a copilot", "no power", 0.6))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4", got.Model)
	assert.InDelta(t, 0.6, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "be a copilot", got.Messages[0].Content)
	assert.Equal(t, RoleUser, got.Messages[1].Role)
}

func TestOpenAIEmptyResponse(t *testing.T) {
	srv := fakeOpenAI(t, "   ", nil)

	p := NewOpenAI("test-key", srv.URL+"/v1", srv.Client())
	_, err := p.Complete(context.Background(), UserPrompt("gpt-3.5-turbo", "hi"))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", srv.URL+"/v1", srv.Client())
	_, err := p.Complete(context.Background(), UserPrompt("gpt-3.5-turbo", "hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating chat completion")
}

func TestGeminiContents(t *testing.T) {
	system, contents := geminiContents([]Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	})
	require.NotNil(t, system)
	require.Len(t, system.Parts, 1)
	assert.Equal(t, "be brief", system.Parts[0].Text)

	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "hello", contents[0].Parts[0].Text)
	assert.Equal(t, "model", contents[1].Role)

	system, contents = geminiContents([]Message{{Role: RoleUser, Content: "only"}})
	assert.Nil(t, system)
	assert.Len(t, contents, 1)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, &config.Config{})
	assert.ErrorContains(t, err, "no API key configured for openai")

	_, err = New(ctx, &config.Config{LLM: config.LLMConfig{Provider: "bard", APIKey: "k"}})
	assert.ErrorContains(t, err, `unknown llm provider "bard"`)

	p, err := New(ctx, &config.Config{LLM: config.LLMConfig{APIKey: "k"}})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = New(ctx, &config.Config{LLM: config.LLMConfig{Provider: "gemini", APIKey: "k"}})
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}

func TestDisabled(t *testing.T) {
	boom := errors.New("no key")
	p := Disabled(boom)
	assert.Equal(t, "disabled", p.Name())
	_, err := p.Complete(context.Background(), UserPrompt("m", "p"))
	assert.ErrorIs(t, err, boom)
}
