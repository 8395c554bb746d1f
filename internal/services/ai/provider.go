package ai

import (
	"context"
)

// Provider is the uniform capability exposed by an external text
// generation service. Implementations must return an error for empty
// output so the gateway can fail over.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error)
}
