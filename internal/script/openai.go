package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIGenerator runs completions against the OpenAI chat API.
type OpenAIGenerator struct {
	model  string
	client openai.Client
}

func NewOpenAIGenerator(model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		model:  model,
		client: openai.NewClient(), // reads OPENAI_API_KEY
	}
}

// NewOpenAIGeneratorWithKey builds a generator with an explicit API key,
// used when the key comes from settings rather than the environment.
func NewOpenAIGeneratorWithKey(model, apiKey string) *OpenAIGenerator {
	return &OpenAIGenerator{
		model:  model,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (g *OpenAIGenerator) Name() string { return "openai/" + g.model }

func (g *OpenAIGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: g.model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			MaxTokens:   openai.Int(maxTokens),
			Temperature: openai.Float(temperature),
		})
		if err != nil {
			var apiErr *openai.Error
			if errors.As(err, &apiErr) {
				err = fmt.Errorf("OpenAI API error (status %d): %s", apiErr.StatusCode, strings.TrimSpace(apiErr.Message))
			}
			lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, maxRetries, err)
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

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = fmt.Errorf("attempt %d/%d: empty completion", attempt, maxRetries)
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

		return resp.Choices[0].Message.Content, nil
	}

	return "", lastErr
}
