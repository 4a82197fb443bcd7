package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mysomang/mytalk/internal/assembly"
	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/store"
	"github.com/mysomang/mytalk/internal/tts"
)

type fakeGenerator struct{}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Korean translation") {
		return "번역.", nil
	}
	if strings.Contains(prompt, `"A: [dialogue]"`) {
		return "ENGLISH TITLE: Cafe Visit\nKOREAN TITLE: 카페 방문\nSCRIPT:\nA: Hello!\nB: Hi there!", nil
	}
	return "ENGLISH TITLE: Cafe Visit\nKOREAN TITLE: 카페 방문\nSCRIPT:\nA short script about cafes.", nil
}

type fakeProvider struct{}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Synthesize(_ context.Context, text string, voice tts.Voice) (tts.AudioResult, error) {
	return tts.AudioResult{Data: []byte("audio:" + text), Format: tts.FormatMP3}, nil
}

func (f *fakeProvider) DefaultVoices() tts.VoicePair {
	return tts.VoicePair{Voice1: tts.Voice{ID: "alloy"}, Voice2: tts.Voice{ID: "nova"}}
}

func (f *fakeProvider) Close() error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	dataDir := t.TempDir()
	st := store.New(dataDir)
	require.NoError(t, st.Init())

	settings := config.Defaults()
	settings.DataDir = dataDir

	binDir := t.TempDir()
	ffmpeg := filepath.Join(binDir, "ffmpeg")
	require.NoError(t, os.WriteFile(ffmpeg, []byte("#!/bin/sh\nfor a in \"$@\"; do out=\"$a\"; done\necho data > \"$out\"\n"), 0755))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(st, settings, logger).WithBackends(
		&fakeGenerator{},
		&fakeProvider{},
		assembly.NewFFmpegAssemblerWith(ffmpeg, filepath.Join(binDir, "no-ffprobe")),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func TestIndexServesUI(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "MyTalk")
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
}

func TestSettingsRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)

	var got map[string]any
	res := getJSON(t, ts.URL+"/api/settings", &got)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.Equal(t, "openai", got["tts_provider"])
	assert.NotEmpty(t, got["models"])
	assert.NotEmpty(t, got["categories"])

	res = postJSON(t, ts.URL+"/api/settings", map[string]string{"model": "sonnet", "voice2": "shimmer"}, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	getJSON(t, ts.URL+"/api/settings", &got)
	assert.Equal(t, "sonnet", got["model"])
	assert.Equal(t, "shimmer", got["voice2"])
}

func TestSettingsRejectsUnknownModel(t *testing.T) {
	ts, _ := newTestServer(t)
	res := postJSON(t, ts.URL+"/api/settings", map[string]string{"model": "gpt-9"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, ts.URL+"/api/settings", map[string]string{"category": "Gastronomy"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestGenerateScriptAndListProjects(t *testing.T) {
	ts, _ := newTestServer(t)

	var meta store.Metadata
	res := postJSON(t, ts.URL+"/api/generate/script", map[string]any{
		"input":    "ordering at a cafe",
		"variants": []string{"original", "dialog"},
		"category": "Food",
	}, &meta)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Cafe Visit", meta.Title)
	assert.Equal(t, []string{"original", "dialog"}, meta.Versions)

	var list struct {
		Projects []store.IndexEntry `json:"projects"`
	}
	getJSON(t, ts.URL+"/api/projects", &list)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, meta.ProjectID, list.Projects[0].ProjectID)
	assert.Equal(t, "Food", list.Projects[0].Category)

	getJSON(t, ts.URL+"/api/projects?search=nothing-matches", &list)
	assert.Empty(t, list.Projects)

	var got store.Metadata
	res = getJSON(t, ts.URL+"/api/projects/"+meta.ProjectID, &got)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, meta.ProjectID, got.ProjectID)
}

func TestGenerateScriptRejectsBadInput(t *testing.T) {
	ts, _ := newTestServer(t)

	res := postJSON(t, ts.URL+"/api/generate/script", map[string]any{"input": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, ts.URL+"/api/generate/script", map[string]any{
		"input": "x", "variants": []string{"lecture"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestGenerateAudio(t *testing.T) {
	ts, st := newTestServer(t)

	var meta store.Metadata
	postJSON(t, ts.URL+"/api/generate/script", map[string]any{
		"input": "cafes", "variants": []string{"dialog"},
	}, &meta)

	var after store.Metadata
	res := postJSON(t, ts.URL+"/api/generate/audio", map[string]any{
		"project_id": meta.ProjectID,
		"variants":   []string{"dialog"},
	}, &after)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, after.SavedFiles["dialog_audio"])

	p, err := st.Load(meta.ProjectID)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(p.Dir, "audio", "dialog_merged_dialogue.mp3"))
}

func TestGenerateAudioDefaultsToSavedVariants(t *testing.T) {
	ts, _ := newTestServer(t)

	var meta store.Metadata
	postJSON(t, ts.URL+"/api/generate/script", map[string]any{
		"input": "cafes", "variants": []string{"basic"},
	}, &meta)

	var after store.Metadata
	res := postJSON(t, ts.URL+"/api/generate/audio", map[string]any{
		"project_id": meta.ProjectID,
	}, &after)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, after.SavedFiles["basic_audio"])
}

func TestGenerateAudioUnknownProject(t *testing.T) {
	ts, _ := newTestServer(t)
	res := postJSON(t, ts.URL+"/api/generate/audio", map[string]any{"project_id": "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteProject(t *testing.T) {
	ts, _ := newTestServer(t)

	var meta store.Metadata
	postJSON(t, ts.URL+"/api/generate/script", map[string]any{"input": "x", "variants": []string{"basic"}}, &meta)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/projects/"+meta.ProjectID, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = getJSON(t, ts.URL+"/api/projects/"+meta.ProjectID, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestVoices(t *testing.T) {
	ts, _ := newTestServer(t)

	var body struct {
		Provider string          `json:"provider"`
		Voices   []tts.VoiceInfo `json:"voices"`
	}
	res := getJSON(t, ts.URL+"/api/voices", &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "openai", body.Provider)
	assert.Len(t, body.Voices, 6)

	res = getJSON(t, ts.URL+"/api/voices?provider=google", &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "google", body.Provider)

	res = getJSON(t, ts.URL+"/api/voices?provider=espeak", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestMediaServesDataDir(t *testing.T) {
	ts, st := newTestServer(t)

	path := filepath.Join(st.DataDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("media works"), 0644))

	res, err := http.Get(ts.URL + "/media/hello.txt")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "media works", string(data))
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	res := postJSON(t, ts.URL+"/api/projects", map[string]string{}, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	res = getJSON(t, fmt.Sprintf("%s/api/generate/script", ts.URL), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
