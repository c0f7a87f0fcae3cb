// Package conversation drives booking conversations: it extracts structured
// intent from each message with an LLM, advances the booking form and keeps
// per-conversation sessions.
package conversation

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a provider-neutral message; system prompts may be inlined.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest describes one completion. A negative Temperature leaves the
// provider default in place.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the language-model collaborator used for extraction and
// classification.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// LLMClientFunc adapts a function to LLMClient.
type LLMClientFunc func(ctx context.Context, req LLMRequest) (LLMResponse, error)

func (f LLMClientFunc) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	return f(ctx, req)
}

// userPrompt is the single-message request shape both LLM operations use.
func userPrompt(model, prompt string, maxTokens int32) LLMRequest {
	return LLMRequest{
		Model:       model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	}
}
