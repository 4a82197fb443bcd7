package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mysomang/mytalk/internal/dialogue"
	"github.com/mysomang/mytalk/internal/script"
)

type fakeProvider struct {
	failTexts map[string]error
	calls     []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Synthesize(_ context.Context, text string, voice Voice) (AudioResult, error) {
	f.calls = append(f.calls, text)
	if err, ok := f.failTexts[text]; ok {
		return AudioResult{}, err
	}
	return AudioResult{Data: []byte("mp3:" + voice.ID + ":" + text), Format: FormatMP3}, nil
}

func (f *fakeProvider) DefaultVoices() VoicePair {
	return VoicePair{Voice1: Voice{ID: "v1"}, Voice2: Voice{ID: "v2"}}
}

func (f *fakeProvider) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVoicePairForRole(t *testing.T) {
	pair := VoicePair{Voice1: Voice{ID: "alloy"}, Voice2: Voice{ID: "nova"}}

	assert.Equal(t, "alloy", pair.ForRole(dialogue.RoleHost).ID)
	assert.Equal(t, "alloy", pair.ForRole(dialogue.RoleA).ID)
	assert.Equal(t, "nova", pair.ForRole(dialogue.RoleGuest).ID)
	assert.Equal(t, "nova", pair.ForRole(dialogue.RoleB).ID)
}

func TestVoicePairForVariant(t *testing.T) {
	pair := VoicePair{Voice1: Voice{ID: "alloy"}, Voice2: Voice{ID: "nova"}}

	assert.Equal(t, "nova", pair.ForVariant(script.VariantTED).ID)
	assert.Equal(t, "alloy", pair.ForVariant(script.VariantOriginal).ID)
	assert.Equal(t, "alloy", pair.ForVariant(script.VariantBasic).ID)
}

func TestSynthesizeTurns(t *testing.T) {
	dir := t.TempDir()
	p := &fakeProvider{}
	turns := []dialogue.Turn{
		{Role: dialogue.RoleHost, Text: "Welcome!", Order: 0},
		{Role: dialogue.RoleGuest, Text: "Glad to be here.", Order: 1},
	}
	pair := p.DefaultVoices()

	var progress []int
	results, err := SynthesizeTurns(context.Background(), p, turns, pair, dir, discardLogger(), func(done, total int) {
		progress = append(progress, done)
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []int{1, 2}, progress)

	assert.Equal(t, filepath.Join(dir, "00_host_v1.mp3"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "01_guest_v2.mp3"), results[1].Path)

	data, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "mp3:v1:Welcome!", string(data))
}

func TestSynthesizeTurnsSkipsFailures(t *testing.T) {
	dir := t.TempDir()
	p := &fakeProvider{failTexts: map[string]error{"bad": errors.New("boom")}}
	turns := []dialogue.Turn{
		{Role: dialogue.RoleA, Text: "good one", Order: 0},
		{Role: dialogue.RoleB, Text: "bad", Order: 1},
		{Role: dialogue.RoleA, Text: "another good one", Order: 2},
	}

	results, err := SynthesizeTurns(context.Background(), p, turns, p.DefaultVoices(), dir, discardLogger(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Turn.Order)
	assert.Equal(t, 2, results[1].Turn.Order)
}

func TestSynthesizeText(t *testing.T) {
	dir := t.TempDir()
	p := &fakeProvider{}
	path := filepath.Join(dir, "narration.mp3")

	require.NoError(t, SynthesizeText(context.Background(), p, "Hello world.", Voice{ID: "alloy"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3:alloy:Hello world.", string(data))
}

func TestWithRetryGivesUpOnNonRetryable(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRetriesRetryable(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return &RetryableError{StatusCode: 429, Body: "rate limited"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{StatusCode: 503, Body: "unavailable"}
	})
	require.Error(t, err)
	assert.Equal(t, defaultMaxAttempts, calls)

	var retryable *RetryableError
	assert.True(t, errors.As(err, &retryable))
	assert.Equal(t, 503, retryable.StatusCode)
}

func TestAvailableVoices(t *testing.T) {
	for _, name := range ProviderNames() {
		voices, err := AvailableVoices(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, voices, name)

		defaults := 0
		for _, v := range voices {
			if v.DefaultFor != "" {
				defaults++
			}
		}
		assert.Equal(t, 2, defaults, "%s catalog marks both default voices", name)
	}

	_, err := AvailableVoices("espeak")
	assert.Error(t, err)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("espeak", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown TTS provider")
}

func TestTurnFilenamesSortInOrder(t *testing.T) {
	dir := t.TempDir()
	p := &fakeProvider{}
	var turns []dialogue.Turn
	for i := 0; i < 12; i++ {
		role := dialogue.RoleHost
		if i%2 == 1 {
			role = dialogue.RoleGuest
		}
		turns = append(turns, dialogue.Turn{Role: role, Text: fmt.Sprintf("t%d", i), Order: i})
	}

	results, err := SynthesizeTurns(context.Background(), p, turns, p.DefaultVoices(), dir, discardLogger(), nil)
	require.NoError(t, err)
	require.Len(t, results, 12)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 12)
	for i, e := range entries {
		assert.Equal(t, filepath.Base(results[i].Path), e.Name())
	}
}
