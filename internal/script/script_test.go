package script

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		title       string
		koreanTitle string
		text        string
	}{
		{
			name: "full sections",
			input: "ENGLISH TITLE: Morning Coffee\nKOREAN TITLE: 아침 커피\n\nSCRIPT:\nEvery morning I make coffee.",
			title:       "Morning Coffee",
			koreanTitle: "아침 커피",
			text:        "Every morning I make coffee.",
		},
		{
			name:  "missing headers falls back to whole text",
			input: "Just a plain script with no headers at all.",
			title: "Generated Script",
			text:  "Just a plain script with no headers at all.",
		},
		{
			name:        "indented headers",
			input:       "  ENGLISH TITLE: Indented\n  KOREAN TITLE: 들여쓰기\nSCRIPT:\nBody here.",
			title:       "Indented",
			koreanTitle: "들여쓰기",
			text:        "Body here.",
		},
		{
			name:  "empty english title keeps default",
			input: "ENGLISH TITLE:\nSCRIPT:\nBody.",
			title: "Generated Script",
			text:  "Body.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseResponse(tt.input)
			assert.Equal(t, tt.title, s.Title)
			assert.Equal(t, tt.koreanTitle, s.KoreanTitle)
			assert.Equal(t, tt.text, s.Text)
		})
	}
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{
		response: "ENGLISH TITLE: Test\nKOREAN TITLE: 테스트\nSCRIPT:\nHello there.",
	}

	s, err := Generate(context.Background(), gen, VariantOriginal, "coffee", GenerateOptions{Category: "Daily Life", InputMethod: "text"})
	require.NoError(t, err)
	assert.Equal(t, VariantOriginal, s.Variant)
	assert.Equal(t, "Test", s.Title)
	assert.Equal(t, "테스트", s.KoreanTitle)
	assert.Equal(t, "Hello there.", s.Text)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "coffee")
	assert.Contains(t, gen.prompts[0], "Daily Life")
}

func TestGenerateEmptyBody(t *testing.T) {
	gen := &fakeGenerator{response: "ENGLISH TITLE: Only a title\nSCRIPT:\n"}
	_, err := Generate(context.Background(), gen, VariantBasic, "x", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty script body")
}

func TestGenerateBackendError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	_, err := Generate(context.Background(), gen, VariantTED, "x", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestTranslate(t *testing.T) {
	gen := &fakeGenerator{response: "안녕하세요."}
	s := &Script{Variant: VariantOriginal, Text: "Hello."}

	require.NoError(t, Translate(context.Background(), gen, s))
	assert.Equal(t, "안녕하세요.", s.Translation)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Hello.")
	assert.Contains(t, gen.prompts[0], "Korean")
}

func TestPromptSpeakerFormats(t *testing.T) {
	podcast := buildPrompt(VariantPodcast, "tea", GenerateOptions{})
	assert.Contains(t, podcast, `"Host: [dialogue]"`)
	assert.Contains(t, podcast, `"Guest: [dialogue]"`)

	dialog := buildPrompt(VariantDialog, "tea", GenerateOptions{})
	assert.Contains(t, dialog, `"A: [dialogue]"`)
	assert.Contains(t, dialog, `"B: [dialogue]"`)

	for _, name := range VariantNames() {
		p := buildPrompt(Variant(name), "tea", GenerateOptions{})
		assert.Contains(t, p, "ENGLISH TITLE:", "variant %s must request titled format", name)
		assert.Contains(t, p, "KOREAN TITLE:", "variant %s must request titled format", name)
	}
}

func TestVariantHelpers(t *testing.T) {
	assert.True(t, VariantPodcast.IsDialogue())
	assert.True(t, VariantDialog.IsDialogue())
	assert.False(t, VariantOriginal.IsDialogue())
	assert.False(t, VariantBasic.IsDialogue())
	assert.False(t, VariantTED.IsDialogue())

	assert.True(t, IsValidVariant("ted"))
	assert.False(t, IsValidVariant("lecture"))
	assert.Len(t, VariantNames(), 5)

	assert.Equal(t, "Podcast Dialogue", VariantLabel(VariantPodcast))
	assert.Equal(t, "custom", VariantLabel(Variant("custom")))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.json")

	s := &Script{
		Variant:     VariantDialog,
		Title:       "At the Cafe",
		KoreanTitle: "카페에서",
		Text:        "A: Hi.\nB: Hello.",
		Translation: "A: 안녕.\nB: 안녕하세요.",
	}
	require.NoError(t, Save(s, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadRejectsEmptyText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	require.NoError(t, Save(&Script{Variant: VariantBasic, Title: "t"}, path))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no text"))
}

func TestModelRouting(t *testing.T) {
	g, err := NewGenerator("gpt-4o-mini")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, g)
	assert.Equal(t, "openai/gpt-4o-mini", g.Name())

	g, err = NewGenerator("sonnet")
	require.NoError(t, err)
	assert.IsType(t, &ClaudeGenerator{}, g)
	assert.Equal(t, "claude/sonnet", g.Name())

	_, err = NewGenerator("gpt-5")
	assert.Error(t, err)

	assert.True(t, IsValidModel("haiku"))
	assert.False(t, IsValidModel(""))
}
