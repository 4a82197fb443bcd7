// Package config loads persisted settings and environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/mysomang/mytalk/internal/script"
	"github.com/mysomang/mytalk/internal/tts"
)

const settingsFile = "settings.json"

// Settings are the persisted defaults plus environment-only secrets.
// File values load first; environment variables override them.
type Settings struct {
	Model       string `json:"model" env:"MYTALK_MODEL"`
	TTSProvider string `json:"tts_provider" env:"MYTALK_TTS"`
	Voice1      string `json:"voice1" env:"MYTALK_VOICE1"`
	Voice2      string `json:"voice2" env:"MYTALK_VOICE2"`
	Category    string `json:"category" env:"MYTALK_CATEGORY"`
	DataDir     string `json:"-" env:"MYTALK_DATA_DIR"`

	OpenAIKey     string `json:"-" env:"OPENAI_API_KEY"`
	AnthropicKey  string `json:"-" env:"ANTHROPIC_API_KEY"`
	ElevenLabsKey string `json:"-" env:"ELEVENLABS_API_KEY"`
}

// Defaults returns the out-of-the-box settings.
func Defaults() Settings {
	return Settings{
		Model:       "gpt-4o-mini",
		TTSProvider: "openai",
		Voice1:      "alloy",
		Voice2:      "nova",
		Category:    "General",
		DataDir:     "mytalk_data",
	}
}

// Categories lists the script topic categories offered in the UI.
func Categories() []string {
	return []string{"General", "Business", "Travel", "Education", "Health", "Technology", "Culture", "Sports"}
}

// IsValidCategory reports whether name is a known category.
func IsValidCategory(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}

// Load builds Settings from defaults, the settings file in the data
// dir (if present), and environment overrides, in that order. The data
// dir itself resolves first: explicit argument, then MYTALK_DATA_DIR,
// then the default, so the file is read from the dir that will be used.
func Load(dataDir string) (Settings, error) {
	s := Defaults()
	switch {
	case dataDir != "":
		s.DataDir = dataDir
	case os.Getenv("MYTALK_DATA_DIR") != "":
		s.DataDir = os.Getenv("MYTALK_DATA_DIR")
	}
	resolvedDir := s.DataDir

	data, err := os.ReadFile(filepath.Join(s.DataDir, settingsFile))
	if err == nil {
		if err := json.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse settings file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return s, fmt.Errorf("read settings file: %w", err)
	}

	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse environment: %w", err)
	}
	s.DataDir = resolvedDir
	return s, nil
}

// Save persists the file-backed settings fields into dataDir.
func Save(s Settings) error {
	if err := os.MkdirAll(s.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.DataDir, settingsFile), data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Validate rejects unknown model, provider, or category names and
// missing API keys for the selected backends.
func (s Settings) Validate() error {
	if !script.IsValidModel(s.Model) {
		return fmt.Errorf("invalid model %q: choose one of gpt-4o-mini, gpt-4o, haiku, sonnet", s.Model)
	}

	if !IsValidCategory(s.Category) {
		return fmt.Errorf("invalid category %q: choose one of %s", s.Category, strings.Join(Categories(), ", "))
	}

	validProvider := false
	for _, p := range tts.ProviderNames() {
		if p == s.TTSProvider {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid TTS provider %q: choose one of openai, elevenlabs, google", s.TTSProvider)
	}

	switch s.Model {
	case "gpt-4o-mini", "gpt-4o":
		if s.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for model %s", s.Model)
		}
	case "haiku", "sonnet":
		if s.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for model %s", s.Model)
		}
	}

	switch s.TTSProvider {
	case "openai":
		if s.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai TTS provider")
		}
	case "elevenlabs":
		if s.ElevenLabsKey == "" {
			return fmt.Errorf("ELEVENLABS_API_KEY is required for the elevenlabs TTS provider")
		}
	}
	return nil
}
