// Package tts turns utterance text into audio through one of several
// speech-synthesis backends.
package tts

import (
	"context"
	"fmt"
	"time"

	"github.com/mysomang/mytalk/internal/dialogue"
	"github.com/mysomang/mytalk/internal/script"
)

// AudioFormat represents the audio encoding returned by a provider.
type AudioFormat string

const (
	FormatMP3 AudioFormat = "mp3"
	FormatWAV AudioFormat = "wav"
)

// Voice holds a provider-specific voice identifier.
type Voice struct {
	ID   string // Provider-specific voice identifier
	Name string // Human-readable label
}

// VoicePair holds the two configured voice identities. Voice1 speaks
// narration scripts plus the first dialogue role (host, a); Voice2
// speaks TED scripts plus the second role (guest, b).
type VoicePair struct {
	Voice1 Voice
	Voice2 Voice
}

// ForRole selects the voice for a dialogue role.
func (vp VoicePair) ForRole(role dialogue.Role) Voice {
	if role == dialogue.RoleGuest || role == dialogue.RoleB {
		return vp.Voice2
	}
	return vp.Voice1
}

// ForVariant selects the voice for a narration (non-dialogue) variant.
func (vp VoicePair) ForVariant(v script.Variant) Voice {
	if v == script.VariantTED {
		return vp.Voice2
	}
	return vp.Voice1
}

// AudioResult is the output of a synthesis call.
type AudioResult struct {
	Data   []byte
	Format AudioFormat
}

// Provider synthesizes speech from text.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string, voice Voice) (AudioResult, error)
	DefaultVoices() VoicePair
	Close() error
}

// VoiceInfo describes an available voice for display in the registry.
type VoiceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender,omitempty"`
	Description string `json:"description"`
	DefaultFor  string `json:"default_for,omitempty"`
}

// AvailableVoices returns the voice catalog for the named provider.
func AvailableVoices(providerName string) ([]VoiceInfo, error) {
	switch providerName {
	case "openai":
		return openAIAvailableVoices(), nil
	case "elevenlabs":
		return elevenLabsAvailableVoices(), nil
	case "google":
		return googleAvailableVoices(), nil
	default:
		return nil, fmt.Errorf("unknown TTS provider %q", providerName)
	}
}

// ProviderNames returns the accepted --tts values.
func ProviderNames() []string {
	return []string{"openai", "elevenlabs", "google"}
}

// Retry constants shared by all providers.
const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 1 * time.Second
	defaultBackoffMulti   = 2
	defaultMaxBackoff     = 10 * time.Second
)

// RetryableError signals that the operation can be retried.
type RetryableError struct {
	StatusCode int
	Body       string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// WithRetry executes fn with exponential backoff on RetryableError.
func WithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else if _, ok := err.(*RetryableError); !ok {
			return err
		} else {
			lastErr = err
		}

		if attempt < defaultMaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= time.Duration(defaultBackoffMulti)
			if backoff > defaultMaxBackoff {
				backoff = defaultMaxBackoff
			}
		}
	}

	return lastErr
}

// NewProvider creates a TTS provider by name. voice1 and voice2 are
// optional provider-specific voice ID overrides.
func NewProvider(name string, voice1, voice2 string) (Provider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(voice1, voice2), nil
	case "elevenlabs":
		return NewElevenLabsProvider(voice1, voice2), nil
	case "google":
		return NewGoogleProvider(voice1, voice2)
	default:
		return nil, fmt.Errorf("unknown TTS provider %q: choose openai, elevenlabs, or google", name)
	}
}
