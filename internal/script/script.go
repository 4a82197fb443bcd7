package script

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Variant identifies one of the five learning-script renditions produced
// from a single input.
type Variant string

const (
	VariantOriginal Variant = "original"
	VariantBasic    Variant = "basic"
	VariantTED      Variant = "ted"
	VariantPodcast  Variant = "podcast"
	VariantDialog   Variant = "dialog"
)

// VariantNames returns all valid variant values in display order.
func VariantNames() []string {
	return []string{
		string(VariantOriginal),
		string(VariantBasic),
		string(VariantTED),
		string(VariantPodcast),
		string(VariantDialog),
	}
}

// VariantLabel returns a human-readable label for display.
func VariantLabel(v Variant) string {
	labels := map[Variant]string{
		VariantOriginal: "Original Script",
		VariantBasic:    "Basic Speaking",
		VariantTED:      "TED-Style Talk",
		VariantPodcast:  "Podcast Dialogue",
		VariantDialog:   "Daily Conversation",
	}
	if l, ok := labels[v]; ok {
		return l
	}
	return string(v)
}

// IsValidVariant returns true if the variant name is recognized.
func IsValidVariant(name string) bool {
	for _, v := range VariantNames() {
		if v == name {
			return true
		}
	}
	return false
}

// IsDialogue reports whether the variant is a two-party format whose audio
// is assembled turn by turn.
func (v Variant) IsDialogue() bool {
	return v == VariantPodcast || v == VariantDialog
}

// Script is one generated rendition of the input content.
type Script struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	KoreanTitle string  `json:"korean_title,omitempty"`
	Text        string  `json:"text"`
	Translation string  `json:"translation,omitempty"`
}

// GenerateOptions carries the per-request knobs shared by all generators.
type GenerateOptions struct {
	Category    string
	InputMethod string // "text", "file", "url", "pdf"
}

// Generator is a text-completion backend. Implementations wrap one chat API
// and own their retry policy.
type Generator interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generate produces one script variant: builds the variant prompt, runs the
// completion, and parses the sectioned response.
func Generate(ctx context.Context, g Generator, v Variant, input string, opts GenerateOptions) (*Script, error) {
	resp, err := g.Complete(ctx, buildPrompt(v, input, opts))
	if err != nil {
		return nil, fmt.Errorf("generate %s script: %w", v, err)
	}
	s := parseResponse(resp)
	s.Variant = v
	if s.Text == "" {
		return nil, fmt.Errorf("generate %s script: empty script body in response", v)
	}
	return s, nil
}

// Translate produces a natural Korean rendering of an English script and
// stores it on the script. Translation failure is reported, not fatal; the
// caller decides whether to continue without it.
func Translate(ctx context.Context, g Generator, s *Script) error {
	out, err := g.Complete(ctx, buildTranslationPrompt(s.Text))
	if err != nil {
		return fmt.Errorf("translate %s script: %w", s.Variant, err)
	}
	s.Translation = out
	return nil
}

// Save writes a script as indented JSON.
func Save(s *Script, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal script: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write script to %s: %w", path, err)
	}
	return nil
}

// Load reads a script saved by Save.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script from %s: %w", path, err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script from %s: %w", path, err)
	}
	if s.Text == "" {
		return nil, fmt.Errorf("script %s has no text", path)
	}
	return &s, nil
}
