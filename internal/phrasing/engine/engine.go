package engine

import "context"

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Engine is one upstream text generator. Implementations must honour ctx.
type Engine interface {
	Name() string
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}
