package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/jgoulah/gridassist/internal/llm"
	"github.com/jgoulah/gridassist/internal/prompt"
)

// Copilot roles
const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
)

// SystemPromptFor returns the copilot system prompt for a role
func SystemPromptFor(role string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleCustomer:
		return prompt.CustomerSystemPrompt, nil
	case RoleAgent:
		return prompt.AgentSystemPrompt, nil
	default:
		return "", fmt.Errorf("unknown copilot role %q (want %s or %s)", role, RoleCustomer, RoleAgent)
	}
}

// Copilot answers a customer self-service question or gives an agent
// step-by-step diagnostic guidance.
func (a *Assistant) Copilot(ctx context.Context, role, query string) Result[Answer] {
	system, err := SystemPromptFor(role)
	if err != nil {
		return Unavailable[Answer](err.Error())
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return Unavailable[Answer](ReasonEmptyQuestion)
	}

	req := llm.SystemPrompt(a.opts.CopilotModel, system, query, a.opts.CopilotTemperature)
	text, err := a.complete(ctx, FeatureCopilot, req)
	if err != nil {
		return unavailable[Answer](FeatureCopilot, fmt.Sprintf("Error generating response: %v", err))
	}
	return Ok(Answer{Prompt: query, Text: text})
}
