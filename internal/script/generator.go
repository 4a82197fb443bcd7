package script

import (
	"fmt"
	"time"
)

// Generation tuning shared by both backends. The token cap bounds the
// longest variant (TED, ~450 words) with headroom for the title headers.
const (
	temperature    = 0.7
	maxTokens      = 2000
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	backoffMult    = 2
)

// ModelNames returns the accepted --model values.
func ModelNames() []string {
	return []string{"gpt-4o-mini", "gpt-4o", "haiku", "sonnet"}
}

// IsValidModel returns true if the model name is recognized.
func IsValidModel(name string) bool {
	for _, m := range ModelNames() {
		if m == name {
			return true
		}
	}
	return false
}

// NewGenerator creates the completion backend for a model name. OpenAI
// models route to the chat-completions client, Claude aliases to the
// Anthropic client.
func NewGenerator(model string) (Generator, error) {
	switch model {
	case "gpt-4o-mini", "gpt-4o":
		return NewOpenAIGenerator(model), nil
	case "haiku", "sonnet":
		return NewClaudeGenerator(model), nil
	default:
		return nil, fmt.Errorf("unknown model %q: choose gpt-4o-mini, gpt-4o, haiku, or sonnet", model)
	}
}
