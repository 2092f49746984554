package driven

import (
	"context"
)

// JudgmentRequest is one semantic-classification prompt.
// No conversation state is retained across calls.
type JudgmentRequest struct {
	System      string  // System instruction text
	User        string  // User instruction text
	Model       string  // Optional override of the adapter's model
	Temperature float64 // 0 = deterministic
	MaxTokens   int     // Hint for maximum output tokens
}

// JudgmentReply is the raw service reply.
// Text is free-form and must go through the judgment parser.
type JudgmentReply struct {
	Text        string
	TotalTokens int
}

// JudgmentService invokes an external semantic-classification provider
type JudgmentService interface {
	// Classify sends one prompt and returns the free-form reply.
	// Errors map onto the domain taxonomy: ErrConfiguration for a
	// missing credential, ErrTransport for network/timeout/non-success,
	// ErrEmptyReply for an absent choice.
	Classify(ctx context.Context, req JudgmentRequest) (*JudgmentReply, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the judgment service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the judgment service
	Close() error
}
