// Package provider provides the chat-completion client used by the reply
// classifier. It wraps the OpenAI-compatible API with retry and typed
// errors so callers can degrade deliberately when the service is down.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnconfigured indicates no classification endpoint was configured.
// Callers receive it at construction time, not mid-call.
var ErrUnconfigured = errors.New("provider not configured")

// Message represents a chat message.
type Message struct {
	role    string
	content string
}

// Role returns the message role.
func (m Message) Role() string { return m.role }

// Content returns the message content.
func (m Message) Content() string { return m.content }

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{role: "system", content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{role: "user", content: content}
}

// ChatRequest represents a request for text generation.
type ChatRequest struct {
	messages    []Message
	maxTokens   int
	temperature float64
}

// NewChatRequest creates a ChatRequest.
func NewChatRequest(messages []Message) ChatRequest {
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	return ChatRequest{messages: msgs}
}

// WithMaxTokens returns a request with the specified max tokens.
func (r ChatRequest) WithMaxTokens(n int) ChatRequest {
	r.maxTokens = n
	return r
}

// WithTemperature returns a request with the specified temperature.
func (r ChatRequest) WithTemperature(t float64) ChatRequest {
	r.temperature = t
	return r
}

// Messages returns the messages.
func (r ChatRequest) Messages() []Message {
	msgs := make([]Message, len(r.messages))
	copy(msgs, r.messages)
	return msgs
}

// MaxTokens returns the max token setting (0 means provider default).
func (r ChatRequest) MaxTokens() int { return r.maxTokens }

// Temperature returns the temperature setting.
func (r ChatRequest) Temperature() float64 { return r.temperature }

// ChatResponse represents a text generation response.
type ChatResponse struct {
	content      string
	finishReason string
}

// NewChatResponse creates a ChatResponse.
func NewChatResponse(content, finishReason string) ChatResponse {
	return ChatResponse{content: content, finishReason: finishReason}
}

// Content returns the generated content.
func (r ChatResponse) Content() string { return r.content }

// FinishReason returns why generation stopped.
func (r ChatResponse) FinishReason() string { return r.finishReason }

// TextGenerator generates chat completions.
type TextGenerator interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// ProviderError wraps an upstream failure with enough context to log and
// classify it.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a ProviderError.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{operation: operation, statusCode: statusCode, message: message, cause: cause}
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.operation, e.message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.cause }

// StatusCode returns the HTTP status of the upstream failure, if any.
func (e *ProviderError) StatusCode() int { return e.statusCode }
