package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go/v3"
)

const (
	openAIDefaultVoice1 = "alloy"
	openAIDefaultVoice2 = "nova"
)

// OpenAIProvider implements Provider using the OpenAI speech API (tts-1).
type OpenAIProvider struct {
	voices VoicePair
	client openai.Client
}

func NewOpenAIProvider(voice1, voice2 string) *OpenAIProvider {
	v1 := openAIDefaultVoice1
	v2 := openAIDefaultVoice2
	if voice1 != "" {
		v1 = voice1
	}
	if voice2 != "" {
		v2 = voice2
	}
	return &OpenAIProvider{
		voices: VoicePair{
			Voice1: Voice{ID: v1, Name: v1},
			Voice2: Voice{ID: v2, Name: v2},
		},
		client: openai.NewClient(), // reads OPENAI_API_KEY
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) DefaultVoices() VoicePair {
	return VoicePair{
		Voice1: Voice{ID: openAIDefaultVoice1, Name: "Alloy"},
		Voice2: Voice{ID: openAIDefaultVoice2, Name: "Nova"},
	}
}

func (p *OpenAIProvider) Synthesize(ctx context.Context, text string, voice Voice) (AudioResult, error) {
	res, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Voice: openai.AudioSpeechNewParamsVoice(voice.ID),
		Input: text,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusTooManyRequests ||
				apiErr.StatusCode >= http.StatusInternalServerError {
				return AudioResult{}, &RetryableError{
					StatusCode: apiErr.StatusCode,
					Body:       apiErr.Message,
				}
			}
		}
		return AudioResult{}, fmt.Errorf("OpenAI speech: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return AudioResult{}, fmt.Errorf("read speech response: %w", err)
	}

	return AudioResult{Data: data, Format: FormatMP3}, nil
}

func (p *OpenAIProvider) Close() error { return nil }

func openAIAvailableVoices() []VoiceInfo {
	return []VoiceInfo{
		{ID: "alloy", Name: "Alloy", Description: "Neutral, balanced voice", DefaultFor: "Voice 1"},
		{ID: "echo", Name: "Echo", Gender: "male", Description: "Clear, articulate male voice"},
		{ID: "fable", Name: "Fable", Gender: "male", Description: "British male, storytelling tone"},
		{ID: "onyx", Name: "Onyx", Gender: "male", Description: "Deep, strong male voice"},
		{ID: "nova", Name: "Nova", Gender: "female", Description: "Soft, warm female voice", DefaultFor: "Voice 2"},
		{ID: "shimmer", Name: "Shimmer", Gender: "female", Description: "Bright, expressive female voice"},
	}
}
