package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

var claudeModels = map[string]string{
	"haiku":  "claude-haiku-4-5-20251001",
	"sonnet": "claude-sonnet-4-5-20250929",
}

// ClaudeGenerator runs completions against the Anthropic Messages API.
type ClaudeGenerator struct {
	model string
}

func NewClaudeGenerator(model string) *ClaudeGenerator {
	return &ClaudeGenerator{model: model}
}

func (g *ClaudeGenerator) Name() string { return "claude/" + g.model }

func (g *ClaudeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient()

	modelID := claudeModels[g.model]
	if modelID == "" {
		modelID = claudeModels["haiku"]
	}

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(modelID),
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			lastErr = fmt.Errorf("Claude API error (attempt %d/%d): %w", attempt, maxRetries, err)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= time.Duration(backoffMult)
			}
			continue
		}

		text := extractText(message)
		if text == "" {
			lastErr = fmt.Errorf("empty response from Claude (attempt %d/%d)", attempt, maxRetries)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= time.Duration(backoffMult)
			}
			continue
		}

		return text, nil
	}

	return "", lastErr
}

func extractText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}
