// Package llm talks to hosted chat-completion models. Callers build a Request
// of role-tagged messages and get the model's free text back; nothing else
// about the endpoint is assumed.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jgoulah/gridassist/internal/config"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the model answers with no text
var ErrEmptyResponse = errors.New("model returned an empty response")

// Message is one role-tagged chat message
type Message struct {
	Role    string
	Content string
}

// Request is a single completion call
type Request struct {
	Model    string
	Messages []Message
	// Temperature is left to the provider default when nil
	Temperature *float32
}

// Provider is a chat-completion backend
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// UserPrompt builds a request with a single user message
func UserPrompt(model, prompt string) Request {
	return Request{
		Model:    model,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// SystemPrompt builds a system + user request at a fixed temperature
func SystemPrompt(model, system, prompt string, temperature float32) Request {
	return Request{
		Model: model,
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: &temperature,
	}
}

// New creates the provider named in the config
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for %s", cfg.GetProvider())
	}

	httpClient := &http.Client{Timeout: cfg.GetLLMTimeout()}

	switch cfg.GetProvider() {
	case "openai":
		return NewOpenAI(cfg.LLM.APIKey, cfg.LLM.BaseURL, httpClient), nil
	case "gemini":
		return NewGemini(ctx, cfg.LLM.APIKey, cfg.LLM.BaseURL, httpClient)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.GetProvider())
	}
}

// Disabled returns a provider that fails every call with err. It lets
// features degrade the same way whether the model is misconfigured or down.
func Disabled(err error) Provider {
	return disabled{err: err}
}

type disabled struct {
	err error
}

func (d disabled) Name() string { return "disabled" }

func (d disabled) Complete(context.Context, Request) (string, error) {
	return "", d.err
}

