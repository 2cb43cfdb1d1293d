package domain

import "context"

// Prompt is one single-turn chat completion request.
type Prompt struct {
	Model  string
	System string
	User   string
	// Deterministic pins sampling to temperature zero. Decomposition needs a
	// stable list shape; synthesis uses the provider default.
	Deterministic bool
}

// Completer runs single-turn prompt completions. op labels provider metrics.
type Completer interface {
	Complete(ctx context.Context, op string, p Prompt) (string, error)
}
