// Package llm defines the provider channel abstraction the chat core streams
// from. The core never interprets provider wire formats: a provider is a lazy,
// finite, non-restartable source of text deltas terminated by completion, an
// error, or caller cancellation. Concrete API adapters live outside this
// module and plug in through the Client interface and Registry.
package llm

import "context"

// Message is the (role, flattened-text) projection of a conversation message
// sent to a provider. Flattening is the caller's job.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the input to a Stream call.
type Request struct {
	Model       string    `json:"model,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"maxTokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Event types emitted on a stream channel.
const (
	EventDelta = "delta"
	EventDone  = "done"
	EventError = "error"
)

// StreamEvent is one chunk from a streaming completion.
type StreamEvent struct {
	Type  string `json:"type"`
	Delta string `json:"delta,omitempty"` // text delta (type="delta")
	Err   string `json:"error,omitempty"` // error message (type="error")
}

// Client is the interface all providers implement.
type Client interface {
	// Stream sends a request and returns a channel of events. The channel is
	// closed after a done or error event, or when ctx is cancelled.
	Stream(ctx context.Context, req Request) (<-chan StreamEvent, error)

	// Name returns the provider name (e.g. "anthropic", "openai").
	Name() string
}
